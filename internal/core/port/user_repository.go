package port

import (
	"context"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

// UserRepositoryPort - хранилище пользователей.
type UserRepositoryPort interface {
	// Create возвращает domain.ErrEmailInUse при нарушении уникальности email.
	Create(ctx context.Context, user *domain.User) error

	// FindByEmail ищет без учета регистра. (nil, nil), если пользователь не найден.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)

	// Search ищет подстроку в имени или email без учета регистра, исключая excludeID.
	Search(ctx context.Context, query string, excludeID uuid.UUID) ([]domain.UserSummary, error)
}

// FavoritesRepositoryPort - избранное пользователя. Операции атомарны для одного пользователя.
type FavoritesRepositoryPort interface {
	// Add возвращает false, если объект уже в избранном.
	Add(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)
	// Remove возвращает false, если объекта не было в избранном.
	Remove(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)
	FindIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
