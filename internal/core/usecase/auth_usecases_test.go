package usecase

import (
	"context"
	"testing"
	"time"

	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	register := NewRegisterUserUseCase(f.users, fakeTokenService{}, time.Hour)
	login := NewLoginUserUseCase(f.users, fakeTokenService{}, time.Hour)

	user, token, err := register.Execute(ctx, "Carol", "Carol@Example.com", "pa55")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", user.Email)
	assert.Equal(t, "token-"+user.ID.String(), token)

	_, _, err = register.Execute(ctx, "Carol again", "carol@example.com", "x")
	assert.ErrorIs(t, err, domain.ErrEmailInUse)

	_, _, err = register.Execute(ctx, "", "dave@example.com", "x")
	assert.ErrorIs(t, err, domain.ErrValidation)

	loggedIn, _, err := login.Execute(ctx, "CAROL@example.com", "pa55")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, _, err = login.Execute(ctx, "carol@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = login.Execute(ctx, "nobody@example.com", "pa55")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateToken(t *testing.T) {
	uc := NewValidateTokenUseCase(fakeTokenService{})
	ctx := context.Background()

	_, err := uc.Execute(ctx, "")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	_, err = uc.Execute(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	id := uuid.New()
	claims, err := uc.Execute(ctx, "token-"+id.String())
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
}

func TestGetCurrentUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, NewAddToFavoritesUseCase(f.favorites, f.properties).Execute(ctx, f.bob.ID, f.home.ID))

	profile, err := NewGetCurrentUserUseCase(f.users, f.favorites, f.properties).Execute(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob Jones", profile.User.Name)
	require.Len(t, profile.Favorites, 1)
	assert.Equal(t, f.home.ID, profile.Favorites[0].ID)

	_, err = NewGetCurrentUserUseCase(f.users, f.favorites, f.properties).Execute(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSeedUsersSkipsExistingEmails(t *testing.T) {
	f := newFixture(t)
	uc := NewSeedUsersUseCase(f.users)

	created, skipped, err := uc.Execute(context.Background(), DefaultSeedUsers)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, skipped)

	john, err := f.users.FindByEmail(context.Background(), "JOHN@example.com")
	require.NoError(t, err)
	require.NotNil(t, john)
	assert.True(t, john.CheckPassword("password123"))

	created, skipped, err = uc.Execute(context.Background(), DefaultSeedUsers)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 3, skipped)

	_, _, err = uc.Execute(context.Background(), []SeedUser{{Name: "X", Email: "broken", Password: "p"}})
	assert.ErrorIs(t, err, domain.ErrBadEmail)
}
