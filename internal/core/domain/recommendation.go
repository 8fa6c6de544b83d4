package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultRecommendationMessage = "Check out this property I found for you!"

// Recommendation - направленная рекомендация объекта от одного пользователя другому.
// Тройка (PropertyID, FromUserID, ToUserID) уникальна.
type Recommendation struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	Message    string
	Read       bool
	CreatedAt  time.Time
}

func NewRecommendation(propertyID, fromUserID, toUserID uuid.UUID, message string) *Recommendation {
	if strings.TrimSpace(message) == "" {
		message = DefaultRecommendationMessage
	}
	return &Recommendation{
		ID:         uuid.New(),
		PropertyID: propertyID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Message:    message,
		Read:       false,
		CreatedAt:  time.Now().UTC(),
	}
}

// RecommendationView - рекомендация с развернутыми объектом и пользователями.
type RecommendationView struct {
	ID        uuid.UUID
	Property  PropertySummary
	FromUser  UserSummary
	ToUser    *UserSummary
	Message   string
	Read      bool
	CreatedAt time.Time

	// PropertyDetails - полный объект, заполняется только при создании рекомендации
	PropertyDetails *Property
}

// RecommendationCreatedEvent публикуется в брокер после создания рекомендации.
type RecommendationCreatedEvent struct {
	RecommendationID uuid.UUID
	PropertyID       uuid.UUID
	PropertyTitle    string
	FromUserID       uuid.UUID
	ToUserID         uuid.UUID
	ToEmail          string
	Message          string
	CreatedAt        time.Time
}
