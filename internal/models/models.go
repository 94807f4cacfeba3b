package models

import (
	"time"
)

type User struct {
	UserID                 string    `json:"userId" db:"user_id"`
	Username               string    `json:"username" db:"username"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	AvatarURL              string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"-" db:"refresh_token_expiry_time"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
}

type Post struct {
	PostID      string    `json:"postId" db:"post_id"`
	AuthorID    string    `json:"authorId" db:"author_id"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"imageUrl,omitempty" db:"image_url"`
	ImageObject string    `json:"-" db:"image_object"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	Author      *User     `json:"author,omitempty" db:"-"`
	LikedBy     []string  `json:"likedBy" db:"-"`
}

type Like struct {
	PostID    string    `json:"postId" db:"post_id"`
	UserID    string    `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// LikedByUser reports whether userID is in the liked-by set
func (p *Post) LikedByUser(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// AddLike inserts userID into the liked-by set, keeping it unique
func (p *Post) AddLike(userID string) {
	if p.LikedByUser(userID) {
		return
	}
	p.LikedBy = append(p.LikedBy, userID)
}

// RemoveLike drops every occurrence of userID from the liked-by set
func (p *Post) RemoveLike(userID string) {
	kept := p.LikedBy[:0]
	for _, id := range p.LikedBy {
		if id != userID {
			kept = append(kept, id)
		}
	}
	p.LikedBy = kept
}

func (p *Post) LikeCount() int {
	return len(p.LikedBy)
}
