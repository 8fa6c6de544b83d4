package rabbitmq

import (
	"marketplace-service/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// RecommendationCreatedEventDTO - тело события RecommendationCreatedEvent v1.
type RecommendationCreatedEventDTO struct {
	RecommendationID uuid.UUID `json:"recommendationId"`
	PropertyID       uuid.UUID `json:"propertyId"`
	PropertyTitle    string    `json:"propertyTitle"`
	FromUserID       uuid.UUID `json:"fromUserId"`
	ToUserID         uuid.UUID `json:"toUserId"`
	ToEmail          string    `json:"toEmail"`
	Message          string    `json:"message"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toRecommendationCreatedDTO(e domain.RecommendationCreatedEvent) RecommendationCreatedEventDTO {
	return RecommendationCreatedEventDTO{
		RecommendationID: e.RecommendationID,
		PropertyID:       e.PropertyID,
		PropertyTitle:    e.PropertyTitle,
		FromUserID:       e.FromUserID,
		ToUserID:         e.ToUserID,
		ToEmail:          e.ToEmail,
		Message:          e.Message,
		CreatedAt:        e.CreatedAt.UTC(),
	}
}
