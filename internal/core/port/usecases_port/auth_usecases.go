package usecases_port

import (
	"context"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

type RegisterUserUseCasePort interface {
	Execute(ctx context.Context, name, email, password string) (*domain.User, string, error)
}

type LoginUserUseCasePort interface {
	Execute(ctx context.Context, email, password string) (*domain.User, string, error)
}

type ValidateTokenUseCasePort interface {
	Execute(ctx context.Context, token string) (*domain.Claims, error)
}

// Profile - текущий пользователь вместе с избранными объектами.
type Profile struct {
	User      domain.User
	Favorites []domain.Property
}

type GetCurrentUserUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID) (*Profile, error)
}
