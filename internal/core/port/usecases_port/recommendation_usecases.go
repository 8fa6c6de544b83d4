package usecases_port

import (
	"context"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

// RecommendInput - входные данные рекомендации. PropertyID и ToEmail могут быть пустыми,
// это проверяется в use case в строго определенном порядке.
type RecommendInput struct {
	PropertyID string
	FromUserID uuid.UUID
	ToEmail    string
	Message    string
}

type RecommendPropertyUseCasePort interface {
	Execute(ctx context.Context, input RecommendInput) (*domain.RecommendationView, error)
}

type ListReceivedRecommendationsUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID) ([]domain.RecommendationView, error)
}

type SearchCandidateUsersUseCasePort interface {
	Execute(ctx context.Context, query string, excludeUserID uuid.UUID) ([]domain.UserSummary, error)
}

type MarkRecommendationReadUseCasePort interface {
	Execute(ctx context.Context, callerID, recommendationID uuid.UUID) error
}
