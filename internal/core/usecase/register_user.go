package usecase

import (
	"context"
	"errors"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"time"
)

type RegisterUserUseCase struct {
	userRepo       port.UserRepositoryPort
	tokenSvc       port.TokenServicePort
	accessTokenTTL time.Duration
}

func NewRegisterUserUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort, accessTokenTTL time.Duration) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:       userRepo,
		tokenSvc:       tokenSvc,
		accessTokenTTL: accessTokenTTL,
	}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RegisterUser",
		"email":    email,
	})
	ucLogger.Info("Use case started: attempting to register user", nil)

	// Хэширование пароля происходит внутри NewUser
	user, err := domain.NewUser(name, email, password)
	if err != nil {
		ucLogger.Warn("Registration rejected by validation", port.Fields{"error": err.Error()})
		return nil, "", err
	}

	existingUser, err := uc.userRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		ucLogger.Error("Repository failed while checking for existing email", err, nil)
		return nil, "", domain.NewInternalError("find user by email", err)
	}
	if existingUser != nil {
		ucLogger.Warn("Registration failed: email already in use", nil)
		return nil, "", domain.ErrEmailInUse
	}

	ucLogger = ucLogger.WithFields(port.Fields{"user_id": user.ID.String()})

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailInUse) {
			ucLogger.Warn("Registration failed: email taken concurrently", nil)
			return nil, "", err
		}
		ucLogger.Error("Repository failed to create user", err, nil)
		return nil, "", domain.NewInternalError("create user", err)
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user, uc.accessTokenTTL)
	if err != nil {
		ucLogger.Error("Failed to generate token after successful registration", err, nil)
		return nil, "", domain.NewInternalError("generate token", err)
	}

	ucLogger.Info("Use case finished: user registered successfully", nil)
	return user, token, nil
}
