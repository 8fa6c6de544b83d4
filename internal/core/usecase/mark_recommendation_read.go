package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

type MarkRecommendationReadUseCase struct {
	recommendations port.RecommendationRepositoryPort
}

func NewMarkRecommendationReadUseCase(recommendations port.RecommendationRepositoryPort) *MarkRecommendationReadUseCase {
	return &MarkRecommendationReadUseCase{recommendations: recommendations}
}

// Execute отмечает рекомендацию прочитанной. Только получатель может это сделать,
// для остальных рекомендация "не существует". Повторный вызов ничего не меняет.
func (uc *MarkRecommendationReadUseCase) Execute(ctx context.Context, callerID, recommendationID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":          "MarkRecommendationRead",
		"user_id":           callerID,
		"recommendation_id": recommendationID,
	})
	ucLogger.Info("Use case started", nil)

	rec, err := uc.recommendations.GetByID(ctx, recommendationID)
	if err != nil {
		ucLogger.Error("Repository failed to find recommendation", err, nil)
		return domain.NewInternalError("find recommendation", err)
	}
	if rec == nil || rec.ToUserID != callerID {
		ucLogger.Warn("Recommendation not found for caller", nil)
		return domain.ErrRecommendationNotFound
	}

	if rec.Read {
		ucLogger.Info("Recommendation already read", nil)
		return nil
	}

	if err := uc.recommendations.MarkRead(ctx, recommendationID); err != nil {
		ucLogger.Error("Repository failed to mark recommendation read", err, nil)
		return domain.NewInternalError("mark recommendation read", err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
