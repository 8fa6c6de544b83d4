package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
)

type QueryPropertiesUseCase struct {
	repo port.PropertyRepositoryPort
}

func NewQueryPropertiesUseCase(repo port.PropertyRepositoryPort) *QueryPropertiesUseCase {
	return &QueryPropertiesUseCase{repo: repo}
}

// Execute возвращает страницу каталога. Операция только читает данные.
func (uc *QueryPropertiesUseCase) Execute(ctx context.Context, query domain.PropertyQuery) (*domain.PropertyPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "QueryProperties",
		"page":     query.Page.Page,
		"limit":    query.Page.Limit,
		"sort_by":  query.Sort.Field,
	})
	ucLogger.Info("Use case started", nil)

	if query.Page == (domain.PageRequest{}) {
		query.Page = domain.PageRequest{Page: domain.DefaultPage, Limit: domain.DefaultLimit}
	}
	page, err := domain.NewPageRequest(query.Page.Page, query.Page.Limit)
	if err != nil {
		ucLogger.Warn("Invalid pagination parameters", nil)
		return nil, err
	}
	query.Page = page

	items, total, err := uc.repo.FindWithFilters(ctx, query)
	if err != nil {
		ucLogger.Error("Repository failed to find properties", err, nil)
		return nil, domain.NewInternalError("find properties", err)
	}
	if items == nil {
		items = []domain.Property{}
	}

	result := &domain.PropertyPage{
		Items:     items,
		Total:     total,
		Page:      page.Page,
		Limit:     page.Limit,
		PageCount: page.PageCount(total),
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"total": total, "items_on_page": len(items)})
	return result, nil
}
