package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

type ListReceivedRecommendationsUseCase struct {
	properties      port.PropertyRepositoryPort
	users           port.UserRepositoryPort
	recommendations port.RecommendationRepositoryPort
}

func NewListReceivedRecommendationsUseCase(
	properties port.PropertyRepositoryPort,
	users port.UserRepositoryPort,
	recommendations port.RecommendationRepositoryPort,
) *ListReceivedRecommendationsUseCase {
	return &ListReceivedRecommendationsUseCase{
		properties:      properties,
		users:           users,
		recommendations: recommendations,
	}
}

// Execute возвращает входящие рекомендации, новые первыми. Удаленные объекты и
// отправители заменяются заглушками.
func (uc *ListReceivedRecommendationsUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]domain.RecommendationView, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ListReceivedRecommendations",
		"user_id":  userID,
	})
	ucLogger.Info("Use case started", nil)

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		ucLogger.Error("Repository failed to find user", err, nil)
		return nil, domain.NewInternalError("find user", err)
	}
	if user == nil {
		ucLogger.Warn("User not found", nil)
		return nil, domain.ErrUserNotFound
	}

	recs, err := uc.recommendations.FindByRecipient(ctx, userID)
	if err != nil {
		ucLogger.Error("Repository failed to find recommendations", err, nil)
		return nil, domain.NewInternalError("find recommendations", err)
	}
	if len(recs) == 0 {
		ucLogger.Info("Use case finished successfully", port.Fields{"count": 0})
		return []domain.RecommendationView{}, nil
	}

	propertyIDs := make([]uuid.UUID, 0, len(recs))
	senderIDs := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		propertyIDs = append(propertyIDs, rec.PropertyID)
		senderIDs = append(senderIDs, rec.FromUserID)
	}

	properties, err := uc.properties.GetByIDs(ctx, propertyIDs)
	if err != nil {
		ucLogger.Error("Repository failed to load recommended properties", err, nil)
		return nil, domain.NewInternalError("load properties", err)
	}
	senders, err := uc.users.FindByIDs(ctx, senderIDs)
	if err != nil {
		ucLogger.Error("Repository failed to load senders", err, nil)
		return nil, domain.NewInternalError("load senders", err)
	}

	propertyByID := make(map[uuid.UUID]domain.PropertySummary, len(properties))
	for i := range properties {
		propertyByID[properties[i].ID] = properties[i].Summary()
	}
	senderByID := make(map[uuid.UUID]domain.UserSummary, len(senders))
	for i := range senders {
		senderByID[senders[i].ID] = senders[i].Summary()
	}

	recipient := user.Summary()
	views := make([]domain.RecommendationView, 0, len(recs))
	dangling := 0
	for _, rec := range recs {
		property, ok := propertyByID[rec.PropertyID]
		if !ok {
			property = domain.DeletedPropertySummary
			dangling++
		}
		sender, ok := senderByID[rec.FromUserID]
		if !ok {
			sender = domain.UnknownUserSummary
			dangling++
		}
		views = append(views, domain.RecommendationView{
			ID:        rec.ID,
			Property:  property,
			FromUser:  sender,
			ToUser:    &recipient,
			Message:   rec.Message,
			Read:      rec.Read,
			CreatedAt: rec.CreatedAt,
		})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(views), "dangling_refs": dangling})
	return views, nil
}
