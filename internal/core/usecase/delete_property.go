package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

type DeletePropertyUseCase struct {
	repo port.PropertyRepositoryPort
}

func NewDeletePropertyUseCase(repo port.PropertyRepositoryPort) *DeletePropertyUseCase {
	return &DeletePropertyUseCase{repo: repo}
}

func (uc *DeletePropertyUseCase) Execute(ctx context.Context, callerID, propertyID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "DeleteProperty",
		"user_id":     callerID,
		"property_id": propertyID,
	})
	ucLogger.Info("Use case started", nil)

	if _, err := loadOwnedProperty(ctx, uc.repo, callerID, propertyID); err != nil {
		ucLogger.Warn("Delete rejected", port.Fields{"error": err.Error()})
		return err
	}

	if err := uc.repo.Delete(ctx, propertyID); err != nil {
		ucLogger.Error("Repository failed to delete property", err, nil)
		return domain.NewInternalError("delete property", err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
