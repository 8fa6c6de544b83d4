package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"strings"

	"github.com/google/uuid"
)

type SearchCandidateUsersUseCase struct {
	users port.UserRepositoryPort
}

func NewSearchCandidateUsersUseCase(users port.UserRepositoryPort) *SearchCandidateUsersUseCase {
	return &SearchCandidateUsersUseCase{users: users}
}

func (uc *SearchCandidateUsersUseCase) Execute(ctx context.Context, query string, excludeUserID uuid.UUID) ([]domain.UserSummary, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SearchCandidateUsers",
		"user_id":  excludeUserID,
	})
	ucLogger.Info("Use case started", nil)

	query = strings.TrimSpace(query)
	if query == "" {
		ucLogger.Warn("Search rejected: empty query", nil)
		return nil, domain.ErrEmptySearchQuery
	}

	users, err := uc.users.Search(ctx, query, excludeUserID)
	if err != nil {
		ucLogger.Error("Repository failed to search users", err, nil)
		return nil, domain.NewInternalError("search users", err)
	}
	if users == nil {
		users = []domain.UserSummary{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"found": len(users)})
	return users, nil
}
