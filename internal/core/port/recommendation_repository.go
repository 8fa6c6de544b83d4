package port

import (
	"context"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

// RecommendationRepositoryPort - хранилище рекомендаций.
type RecommendationRepositoryPort interface {
	// Create возвращает domain.ErrDuplicateRecommendation, если тройка
	// (объект, отправитель, получатель) уже существует.
	Create(ctx context.Context, rec *domain.Recommendation) error
	Exists(ctx context.Context, propertyID, fromUserID, toUserID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Recommendation, error)

	// FindByRecipient возвращает рекомендации получателя, новые первыми.
	FindByRecipient(ctx context.Context, toUserID uuid.UUID) ([]domain.Recommendation, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}
