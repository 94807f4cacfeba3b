package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"instaclone/internal/config"
	"instaclone/internal/models"
	"instaclone/internal/repository"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	ErrInvalidToken       = errors.New("недействительный токен")
)

// Tokens is the pair handed out on register, login and refresh
type Tokens struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type AuthService interface {
	Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, *Tokens, error)
	Login(ctx context.Context, username, password string) (*models.User, *Tokens, error)
	Logout(ctx context.Context, userID string) error
	RefreshTokens(ctx context.Context, refreshToken string) (*models.User, *Tokens, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	GetUserFromToken(tokenString string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *authService) Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, *Tokens, error) {
	existingUser, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err == nil && existingUser != nil {
		return nil, nil, fmt.Errorf("пользователь %s уже существует: %w", req.Username, repository.ErrDuplicate)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, err
	}

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()

	user := &models.User{
		Username:               req.Username,
		RefreshToken:           refreshToken,
		RefreshTokenExpiryTime: refreshTokenExpiry,
	}

	err = s.userRepo.CreateUser(ctx, user, req.Password)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, *Tokens, error) {
	user, err := s.userRepo.VerifyPassword(ctx, username, password)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка аутентификации: %w", ErrInvalidCredentials)
	}

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()

	err = s.userRepo.UpdateRefreshToken(ctx, user.UserID, refreshToken, refreshTokenExpiry)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка сохранения refresh token: %w", err)
	}

	tokens, err := s.issueTokens(user, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Logout invalidates the stored refresh token, access tokens expire on their own
func (s *authService) Logout(ctx context.Context, userID string) error {
	err := s.userRepo.UpdateRefreshToken(ctx, userID, "", time.Unix(0, 0).UTC())
	if err != nil {
		return fmt.Errorf("ошибка при выходе из аккаунта: %w", err)
	}
	return nil
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, *Tokens, error) {
	if refreshToken == "" {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("недействительный refresh token: %w", ErrInvalidToken)
		}
		return nil, nil, err
	}

	newRefreshToken, refreshTokenExpiry := s.generateRefreshToken()

	err = s.userRepo.UpdateRefreshToken(ctx, user.UserID, newRefreshToken, refreshTokenExpiry)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка обновления refresh token: %w", err)
	}

	tokens, err := s.issueTokens(user, newRefreshToken)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *authService) issueTokens(user *models.User, refreshToken string) (*Tokens, error) {
	expiresAt := time.Now().Add(s.cfg.AccessTokenDuration)

	accessToken, err := s.generateAccessToken(user, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации access token: %w", err)
	}

	return &Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *authService) generateAccessToken(user *models.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"userId":   user.UserID,
		"username": user.Username,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

func (s *authService) generateRefreshToken() (string, time.Time) {
	return uuid.New().String(), time.Now().Add(s.cfg.RefreshTokenDuration)
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга токена: %v: %w", err, ErrInvalidToken)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return token, nil
}

func (s *authService) GetUserFromToken(tokenString string) (*models.User, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("неверный формат claims: %w", ErrInvalidToken)
	}

	userID, _ := claims["userId"].(string)
	username, _ := claims["username"].(string)
	if userID == "" {
		return nil, fmt.Errorf("в токене нет userId: %w", ErrInvalidToken)
	}

	return &models.User{UserID: userID, Username: username}, nil
}
