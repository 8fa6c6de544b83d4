package usecase

import (
	"context"
	"errors"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

type RecommendPropertyUseCase struct {
	properties      port.PropertyRepositoryPort
	users           port.UserRepositoryPort
	recommendations port.RecommendationRepositoryPort
	events          port.RecommendationEventsPort
}

// NewRecommendPropertyUseCase - events может быть nil, тогда события не публикуются.
func NewRecommendPropertyUseCase(
	properties port.PropertyRepositoryPort,
	users port.UserRepositoryPort,
	recommendations port.RecommendationRepositoryPort,
	events port.RecommendationEventsPort,
) *RecommendPropertyUseCase {
	return &RecommendPropertyUseCase{
		properties:      properties,
		users:           users,
		recommendations: recommendations,
		events:          events,
	}
}

// Execute выполняет проверки в фиксированном порядке: обязательные поля, объект,
// формат email, получатель, самоадресация, дубликат. Первая сработавшая проверка определяет ошибку.
func (uc *RecommendPropertyUseCase) Execute(ctx context.Context, in usecases_port.RecommendInput) (*domain.RecommendationView, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "RecommendProperty",
		"from_user_id": in.FromUserID,
		"property_id":  in.PropertyID,
	})
	ucLogger.Info("Use case started", nil)

	if in.PropertyID == "" || in.ToEmail == "" {
		ucLogger.Warn("Recommendation rejected: missing fields", nil)
		return nil, domain.ErrMissingFields
	}

	property, err := uc.findProperty(ctx, in.PropertyID)
	if err != nil {
		ucLogger.Error("Repository failed to find property", err, nil)
		return nil, domain.NewInternalError("find property", err)
	}
	if property == nil {
		ucLogger.Warn("Recommendation rejected: property not found", nil)
		return nil, domain.ErrPropertyNotFound
	}

	if !domain.IsValidEmail(in.ToEmail) {
		ucLogger.Warn("Recommendation rejected: malformed email", nil)
		return nil, domain.ErrBadEmail
	}

	recipient, err := uc.users.FindByEmail(ctx, domain.NormalizeEmail(in.ToEmail))
	if err != nil {
		ucLogger.Error("Repository failed to find recipient", err, nil)
		return nil, domain.NewInternalError("find recipient", err)
	}
	if recipient == nil {
		ucLogger.Warn("Recommendation rejected: recipient not found", nil)
		return nil, domain.ErrRecipientNotFound
	}
	ucLogger = ucLogger.WithFields(port.Fields{"to_user_id": recipient.ID})

	if recipient.ID == in.FromUserID {
		ucLogger.Warn("Recommendation rejected: self-recommendation", nil)
		return nil, domain.ErrSelfRecommend
	}

	exists, err := uc.recommendations.Exists(ctx, property.ID, in.FromUserID, recipient.ID)
	if err != nil {
		ucLogger.Error("Repository failed to check existing recommendation", err, nil)
		return nil, domain.NewInternalError("check recommendation", err)
	}
	if exists {
		ucLogger.Warn("Recommendation rejected: duplicate", nil)
		return nil, domain.ErrDuplicateRecommendation
	}

	rec := domain.NewRecommendation(property.ID, in.FromUserID, recipient.ID, in.Message)
	if err := uc.recommendations.Create(ctx, rec); err != nil {
		// Параллельный запрос мог успеть создать ту же рекомендацию между проверкой и вставкой.
		if errors.Is(err, domain.ErrDuplicateRecommendation) {
			ucLogger.Warn("Recommendation rejected by store uniqueness constraint", nil)
			return nil, err
		}
		ucLogger.Error("Repository failed to create recommendation", err, nil)
		return nil, domain.NewInternalError("create recommendation", err)
	}

	sender := domain.UnknownUserSummary
	fromUser, err := uc.users.FindByID(ctx, in.FromUserID)
	if err != nil {
		ucLogger.Warn("Failed to load sender for response", port.Fields{"error": err.Error()})
	} else if fromUser != nil {
		sender = fromUser.Summary()
	}
	to := recipient.Summary()

	view := &domain.RecommendationView{
		ID:              rec.ID,
		Property:        property.Summary(),
		FromUser:        sender,
		ToUser:          &to,
		Message:         rec.Message,
		Read:            rec.Read,
		CreatedAt:       rec.CreatedAt,
		PropertyDetails: property,
	}

	uc.publishCreated(ctx, ucLogger, rec, property, recipient)

	ucLogger.Info("Use case finished successfully", port.Fields{"recommendation_id": rec.ID})
	return view, nil
}

func (uc *RecommendPropertyUseCase) findProperty(ctx context.Context, rawID string) (*domain.Property, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		// Некорректный ID не может существовать в хранилище.
		return nil, nil
	}
	return uc.properties.GetByID(ctx, id)
}

// publishCreated не влияет на результат операции: ошибка публикации только логируется.
func (uc *RecommendPropertyUseCase) publishCreated(ctx context.Context, logger port.LoggerPort, rec *domain.Recommendation, property *domain.Property, recipient *domain.User) {
	if uc.events == nil {
		return
	}
	event := domain.RecommendationCreatedEvent{
		RecommendationID: rec.ID,
		PropertyID:       property.ID,
		PropertyTitle:    property.Title,
		FromUserID:       rec.FromUserID,
		ToUserID:         recipient.ID,
		ToEmail:          recipient.Email,
		Message:          rec.Message,
		CreatedAt:        rec.CreatedAt,
	}
	if err := uc.events.PublishRecommendationCreated(ctx, event); err != nil {
		logger.Error("Failed to publish recommendation created event", err, nil)
	}
}
