package usecases_port

import (
	"context"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

type AddToFavoritesUseCasePort interface {
	Execute(ctx context.Context, userID, propertyID uuid.UUID) error
}

type RemoveFromFavoritesUseCasePort interface {
	Execute(ctx context.Context, userID, propertyID uuid.UUID) error
}

type GetUserFavoritesUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID) ([]domain.Property, error)
}
