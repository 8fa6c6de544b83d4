package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

type UpdatePropertyUseCase struct {
	repo port.PropertyRepositoryPort
}

func NewUpdatePropertyUseCase(repo port.PropertyRepositoryPort) *UpdatePropertyUseCase {
	return &UpdatePropertyUseCase{repo: repo}
}

func (uc *UpdatePropertyUseCase) Execute(ctx context.Context, callerID, propertyID uuid.UUID, patch domain.PropertyPatch) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "UpdateProperty",
		"user_id":     callerID,
		"property_id": propertyID,
	})
	ucLogger.Info("Use case started", nil)

	current, err := loadOwnedProperty(ctx, uc.repo, callerID, propertyID)
	if err != nil {
		ucLogger.Warn("Update rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	updated, err := patch.Apply(*current)
	if err != nil {
		ucLogger.Warn("Update rejected by validation", port.Fields{"error": err.Error()})
		return nil, err
	}

	if err := uc.repo.Update(ctx, updated); err != nil {
		ucLogger.Error("Repository failed to update property", err, nil)
		return nil, domain.NewInternalError("update property", err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return updated, nil
}

// loadOwnedProperty загружает объект для изменения. Демонстрационные объекты неизменяемы,
// чужой объект для вызывающего "не существует".
func loadOwnedProperty(ctx context.Context, repo port.PropertyRepositoryPort, callerID, propertyID uuid.UUID) (*domain.Property, error) {
	property, err := repo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, domain.NewInternalError("get property", err)
	}
	if property == nil {
		return nil, domain.ErrPropertyNotOwned
	}
	if property.IsSample {
		return nil, domain.ErrSampleImmutable
	}
	if !property.IsOwnedBy(callerID) {
		return nil, domain.ErrPropertyNotOwned
	}
	return property, nil
}
