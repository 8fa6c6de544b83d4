package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

type CreatePropertyUseCase struct {
	repo port.PropertyRepositoryPort
}

func NewCreatePropertyUseCase(repo port.PropertyRepositoryPort) *CreatePropertyUseCase {
	return &CreatePropertyUseCase{repo: repo}
}

func (uc *CreatePropertyUseCase) Execute(ctx context.Context, ownerID uuid.UUID, input domain.Property) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CreateProperty",
		"owner_id": ownerID,
	})
	ucLogger.Info("Use case started", nil)

	property, err := domain.NewUserProperty(input, ownerID)
	if err != nil {
		ucLogger.Warn("Property rejected by validation", port.Fields{"error": err.Error()})
		return nil, err
	}

	if err := uc.repo.Create(ctx, property); err != nil {
		ucLogger.Error("Repository failed to create property", err, nil)
		return nil, domain.NewInternalError("create property", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"property_id": property.ID})
	return property, nil
}
