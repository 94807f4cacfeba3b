package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type LikeRepositoryImpl struct {
	DB *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) *LikeRepositoryImpl {
	return &LikeRepositoryImpl{DB: db}
}

// Add is idempotent: liking twice keeps a single row
func (r *LikeRepositoryImpl) Add(ctx context.Context, postID, userID string) error {
	query := `
		INSERT INTO post_likes (post_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`

	_, err := r.DB.ExecContext(ctx, query, postID, userID, time.Now())
	if err != nil {
		return fmt.Errorf("ошибка при добавлении лайка: %w", err)
	}

	return nil
}

func (r *LikeRepositoryImpl) Remove(ctx context.Context, postID, userID string) error {
	query := `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`

	_, err := r.DB.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении лайка: %w", err)
	}

	return nil
}

// LikedBy returns user ids per post id, every requested post is present in the map
func (r *LikeRepositoryImpl) LikedBy(ctx context.Context, postIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(postIDs))
	for _, id := range postIDs {
		result[id] = []string{}
	}

	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT post_id, user_id FROM post_likes
		WHERE post_id = ANY($1)
		ORDER BY created_at
	`

	var likes []struct {
		PostID string `db:"post_id"`
		UserID string `db:"user_id"`
	}
	err := r.DB.SelectContext(ctx, &likes, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении лайков: %w", err)
	}

	for _, like := range likes {
		result[like.PostID] = append(result[like.PostID], like.UserID)
	}

	return result, nil
}
