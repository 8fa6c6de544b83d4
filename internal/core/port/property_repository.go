package port

import (
	"context"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

// PropertyRepositoryPort - хранилище объявлений.
// Методы поиска по ID возвращают (nil, nil), если объект не найден.
type PropertyRepositoryPort interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Property, error)
	Update(ctx context.Context, property *domain.Property) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindWithFilters возвращает страницу объектов и общее количество совпадений без учета пагинации.
	FindWithFilters(ctx context.Context, query domain.PropertyQuery) ([]domain.Property, int64, error)

	// FindByOwner возвращает объекты владельца, новые первыми.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Property, error)

	// ReplaceSamples атомарно заменяет все демонстрационные объекты.
	ReplaceSamples(ctx context.Context, samples []domain.Property) (int, error)
}
