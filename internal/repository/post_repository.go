package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"instaclone/internal/config"
	"instaclone/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

type CreatePostRequest struct {
	AuthorID    string `json:"author_id"`
	Description string `json:"description"`
}

// PostQuery selects posts newest first with the author loaded. Empty AuthorID means no filter.
type PostQuery struct {
	AuthorID string
	Limit    int
}

// Normalize caps Limit at config.MaxFeedLimit, zero or negative means the cap
func (q PostQuery) Normalize() PostQuery {
	if q.Limit < 1 || q.Limit > config.MaxFeedLimit {
		q.Limit = config.MaxFeedLimit
	}
	return q
}

// postRow is a post joined with its author's public columns
type postRow struct {
	models.Post
	AuthorUsername  string `db:"author_username"`
	AuthorAvatarURL string `db:"author_avatar_url"`
}

func (row *postRow) toModel() *models.Post {
	post := row.Post
	post.Author = &models.User{
		UserID:    row.AuthorID,
		Username:  row.AuthorUsername,
		AvatarURL: row.AuthorAvatarURL,
	}
	post.LikedBy = []string{}
	return &post
}

const selectPostsWithAuthor = `
        SELECT p.post_id, p.author_id, p.description, p.image_url, p.image_object,
               p.created_at, p.updated_at,
               u.username AS author_username, u.avatar_url AS author_avatar_url
        FROM posts p
        JOIN users u ON u.user_id = p.author_id
`

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `
        INSERT INTO posts
        (post_id, author_id, description, image_url, image_object, created_at, updated_at)
        VALUES
        (:post_id, :author_id, :description, :image_url, :image_object, :created_at, :updated_at)
    `

	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := r.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("пост %s уже существует: %w", post.PostID, ErrDuplicate)
		}
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := selectPostsWithAuthor + `WHERE p.post_id = $1`

	var row postRow
	err := r.DB.GetContext(ctx, &row, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост с ID %s не найден: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return row.toModel(), nil
}

func (r *PostRepositoryImpl) Query(ctx context.Context, q PostQuery) ([]*models.Post, error) {
	q = q.Normalize()

	query := selectPostsWithAuthor
	args := []interface{}{}

	if q.AuthorID != "" {
		query += `WHERE p.author_id = $1
        ORDER BY p.created_at DESC
        LIMIT $2`
		args = append(args, q.AuthorID, q.Limit)
	} else {
		query += `ORDER BY p.created_at DESC
        LIMIT $1`
		args = append(args, q.Limit)
	}

	var rows []postRow
	err := r.DB.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", err)
	}

	posts := make([]*models.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].toModel())
	}

	return posts, nil
}
