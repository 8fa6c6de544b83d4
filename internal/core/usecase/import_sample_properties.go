package usecase

import (
	"context"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
)

type ImportSamplePropertiesUseCase struct {
	repo port.PropertyRepositoryPort
}

func NewImportSamplePropertiesUseCase(repo port.PropertyRepositoryPort) *ImportSamplePropertiesUseCase {
	return &ImportSamplePropertiesUseCase{repo: repo}
}

// Execute заменяет все демонстрационные объекты переданным набором.
// Если хотя бы одна запись невалидна, хранилище не изменяется.
func (uc *ImportSamplePropertiesUseCase) Execute(ctx context.Context, samples []domain.Property) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ImportSampleProperties",
		"records":  len(samples),
	})
	ucLogger.Info("Use case started", nil)

	prepared := make([]domain.Property, 0, len(samples))
	for i, s := range samples {
		p, err := domain.NewSampleProperty(s)
		if err != nil {
			ucLogger.Warn("Sample record rejected", port.Fields{"row": i + 1, "error": err.Error()})
			return 0, fmt.Errorf("record %d: %w", i+1, err)
		}
		prepared = append(prepared, *p)
	}

	inserted, err := uc.repo.ReplaceSamples(ctx, prepared)
	if err != nil {
		ucLogger.Error("Repository failed to replace samples", err, nil)
		return 0, domain.NewInternalError("replace samples", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"inserted": inserted})
	return inserted, nil
}
