package usecases_port

import (
	"context"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

type QueryPropertiesUseCasePort interface {
	Execute(ctx context.Context, query domain.PropertyQuery) (*domain.PropertyPage, error)
}

type CreatePropertyUseCasePort interface {
	Execute(ctx context.Context, ownerID uuid.UUID, input domain.Property) (*domain.Property, error)
}

type GetPropertyUseCasePort interface {
	Execute(ctx context.Context, id uuid.UUID) (*domain.Property, error)
}

type ListOwnPropertiesUseCasePort interface {
	Execute(ctx context.Context, ownerID uuid.UUID) ([]domain.Property, error)
}

type UpdatePropertyUseCasePort interface {
	Execute(ctx context.Context, callerID, propertyID uuid.UUID, patch domain.PropertyPatch) (*domain.Property, error)
}

type DeletePropertyUseCasePort interface {
	Execute(ctx context.Context, callerID, propertyID uuid.UUID) error
}

type ImportSamplePropertiesUseCasePort interface {
	Execute(ctx context.Context, samples []domain.Property) (int, error)
}
