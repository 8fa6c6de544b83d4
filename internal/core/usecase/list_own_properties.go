package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

type ListOwnPropertiesUseCase struct {
	repo port.PropertyRepositoryPort
}

func NewListOwnPropertiesUseCase(repo port.PropertyRepositoryPort) *ListOwnPropertiesUseCase {
	return &ListOwnPropertiesUseCase{repo: repo}
}

func (uc *ListOwnPropertiesUseCase) Execute(ctx context.Context, ownerID uuid.UUID) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ListOwnProperties",
		"owner_id": ownerID,
	})
	ucLogger.Info("Use case started", nil)

	properties, err := uc.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		ucLogger.Error("Repository failed to find owner properties", err, nil)
		return nil, domain.NewInternalError("find owner properties", err)
	}
	if properties == nil {
		properties = []domain.Property{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(properties)})
	return properties, nil
}
