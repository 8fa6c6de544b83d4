package usecase

import (
	"context"
	"errors"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
)

// SeedUser - учетная запись для демонстрационного стенда.
type SeedUser struct {
	Name     string
	Email    string
	Password string
}

// DefaultSeedUsers - стандартный набор демонстрационных пользователей.
var DefaultSeedUsers = []SeedUser{
	{Name: "John Doe", Email: "john@example.com", Password: "password123"},
	{Name: "Jane Smith", Email: "jane@example.com", Password: "password123"},
	{Name: "Bob Wilson", Email: "bob@example.com", Password: "password123"},
}

type SeedUsersUseCase struct {
	userRepo port.UserRepositoryPort
}

func NewSeedUsersUseCase(userRepo port.UserRepositoryPort) *SeedUsersUseCase {
	return &SeedUsersUseCase{userRepo: userRepo}
}

// Execute создает пользователей, пропуская уже зарегистрированные email.
// Возвращает число созданных и пропущенных записей.
func (uc *SeedUsersUseCase) Execute(ctx context.Context, seeds []SeedUser) (int, int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SeedUsers",
		"users":    len(seeds),
	})
	ucLogger.Info("Use case started", nil)

	created, skipped := 0, 0
	for _, seed := range seeds {
		user, err := domain.NewUser(seed.Name, seed.Email, seed.Password)
		if err != nil {
			ucLogger.Warn("Seed user rejected by validation", port.Fields{"email": seed.Email, "error": err.Error()})
			return created, skipped, err
		}

		if err := uc.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrEmailInUse) {
				ucLogger.Info("Seed user already exists, skipping", port.Fields{"email": user.Email})
				skipped++
				continue
			}
			ucLogger.Error("Repository failed to create seed user", err, port.Fields{"email": user.Email})
			return created, skipped, domain.NewInternalError("create user", err)
		}
		created++
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"created": created, "skipped": skipped})
	return created, skipped, nil
}
