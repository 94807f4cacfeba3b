package repository

import (
	"context"
	"errors"
	"instaclone/internal/models"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("запись не найдена")
	ErrDuplicate = errors.New("запись уже существует")
)

// uniqueViolation is the postgres SQLSTATE for unique constraint failures
const uniqueViolation = "23505"

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	VerifyPassword(ctx context.Context, username, password string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	Query(ctx context.Context, q PostQuery) ([]*models.Post, error)
}

type LikeRepository interface {
	Add(ctx context.Context, postID, userID string) error
	Remove(ctx context.Context, postID, userID string) error
	LikedBy(ctx context.Context, postIDs []string) (map[string][]string, error)
}

type TablesRepository interface {
	CountTablesDB() (int, error)
}

type Repository struct {
	User   UserRepository
	Post   PostRepository
	Like   LikeRepository
	Tables TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:   NewUserRepository(db),
		Post:   NewPostRepository(db),
		Like:   NewLikeRepository(db),
		Tables: NewTablesRepository(db),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
