package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

type GetPropertyUseCase struct {
	repo port.PropertyRepositoryPort
}

func NewGetPropertyUseCase(repo port.PropertyRepositoryPort) *GetPropertyUseCase {
	return &GetPropertyUseCase{repo: repo}
}

func (uc *GetPropertyUseCase) Execute(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetProperty",
		"property_id": id,
	})
	ucLogger.Debug("Use case started", nil)

	property, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Repository failed to get property", err, nil)
		return nil, domain.NewInternalError("get property", err)
	}
	if property == nil {
		ucLogger.Warn("Property not found", nil)
		return nil, domain.ErrPropertyNotFound
	}

	ucLogger.Debug("Use case finished successfully", nil)
	return property, nil
}
