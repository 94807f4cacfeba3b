package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"instaclone/internal/config"
	"instaclone/internal/models"
	"instaclone/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:         "test-secret",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		FeedLimit:            config.MaxFeedLimit,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Успешная регистрация", func(t *testing.T) {
		repo := new(mockUserRepository)
		svc := NewAuthService(repo, testConfig())

		repo.On("GetUserByUsername", ctx, "pablo").Return(nil, repository.ErrNotFound)
		repo.On("CreateUser", ctx, mock.AnythingOfType("*models.User"), "password123").
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.User).UserID = "user-1"
			}).
			Return(nil)

		user, tokens, err := svc.Register(ctx, repository.CreateUserRequest{Username: "pablo", Password: "password123"})

		require.NoError(t, err)
		assert.Equal(t, "pablo", user.Username)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.Equal(t, user.RefreshToken, tokens.RefreshToken)

		parsed, err := svc.GetUserFromToken(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "user-1", parsed.UserID)
		assert.Equal(t, "pablo", parsed.Username)
		repo.AssertExpectations(t)
	})

	t.Run("Имя пользователя занято", func(t *testing.T) {
		repo := new(mockUserRepository)
		svc := NewAuthService(repo, testConfig())

		repo.On("GetUserByUsername", ctx, "pablo").Return(&models.User{UserID: "user-1"}, nil)

		user, tokens, err := svc.Register(ctx, repository.CreateUserRequest{Username: "pablo", Password: "password123"})

		assert.Nil(t, user)
		assert.Nil(t, tokens)
		assert.True(t, errors.Is(err, repository.ErrDuplicate))
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Успешный вход", func(t *testing.T) {
		repo := new(mockUserRepository)
		svc := NewAuthService(repo, testConfig())

		repo.On("VerifyPassword", ctx, "pablo", "password123").Return(&models.User{UserID: "user-1", Username: "pablo"}, nil)
		repo.On("UpdateRefreshToken", ctx, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		user, tokens, err := svc.Login(ctx, "pablo", "password123")

		require.NoError(t, err)
		assert.Equal(t, "user-1", user.UserID)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.True(t, tokens.ExpiresAt.After(time.Now()))
		repo.AssertExpectations(t)
	})

	t.Run("Неверный пароль", func(t *testing.T) {
		repo := new(mockUserRepository)
		svc := NewAuthService(repo, testConfig())

		repo.On("VerifyPassword", ctx, "pablo", "wrong").Return(nil, errors.New("неверный пароль"))

		_, _, err := svc.Login(ctx, "pablo", "wrong")

		assert.True(t, errors.Is(err, ErrInvalidCredentials))
		repo.AssertNotCalled(t, "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepository)
	svc := NewAuthService(repo, testConfig())

	repo.On("UpdateRefreshToken", ctx, "user-1", "", time.Unix(0, 0).UTC()).Return(nil)

	assert.NoError(t, svc.Logout(ctx, "user-1"))
	repo.AssertExpectations(t)
}

func TestAuthService_RefreshTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("Токены обновлены", func(t *testing.T) {
		repo := new(mockUserRepository)
		svc := NewAuthService(repo, testConfig())

		repo.On("GetUserByRefreshToken", ctx, "refresh-1").Return(&models.User{UserID: "user-1", Username: "pablo"}, nil)
		repo.On("UpdateRefreshToken", ctx, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		_, tokens, err := svc.RefreshTokens(ctx, "refresh-1")

		require.NoError(t, err)
		assert.NotEqual(t, "refresh-1", tokens.RefreshToken)
	})

	t.Run("Пустой refresh token", func(t *testing.T) {
		svc := NewAuthService(new(mockUserRepository), testConfig())

		_, _, err := svc.RefreshTokens(ctx, "")

		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("Просроченный refresh token", func(t *testing.T) {
		repo := new(mockUserRepository)
		svc := NewAuthService(repo, testConfig())

		repo.On("GetUserByRefreshToken", ctx, "old").Return(nil, repository.ErrNotFound)

		_, _, err := svc.RefreshTokens(ctx, "old")

		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc := NewAuthService(new(mockUserRepository), testConfig())
	other := NewAuthService(new(mockUserRepository), &config.Config{JWTSecretKey: "other", AccessTokenDuration: time.Hour})

	tokens, err := other.(*authService).issueTokens(&models.User{UserID: "user-1"}, "r")
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokens.AccessToken)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = svc.GetUserFromToken("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
