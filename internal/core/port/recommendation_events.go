package port

import (
	"context"
	"marketplace-service/internal/core/domain"
)

// RecommendationEventsPort публикует события о рекомендациях во внешние системы.
type RecommendationEventsPort interface {
	PublishRecommendationCreated(ctx context.Context, event domain.RecommendationCreatedEvent) error
}
