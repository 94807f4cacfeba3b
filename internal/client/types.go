package client

import (
	"fmt"
	"sync"
	"time"
)

type User struct {
	ID        string `json:"userId" yaml:"id"`
	Username  string `json:"username" yaml:"username"`
	AvatarURL string `json:"avatarUrl,omitempty" yaml:"avatar_url,omitempty"`
}

type Post struct {
	ID          string    `json:"postId"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Author      User      `json:"author"`
	LikedBy     []string  `json:"likedBy"`
}

// PostQuery mirrors the server query: empty AuthorID is the whole feed, Limit is capped at 20 server side
type PostQuery struct {
	AuthorID string
	Limit    int
}

// NewPost is a post to be saved. The author is always the session user.
type NewPost struct {
	Description string
	ImagePath   string
}

type LikeResult struct {
	PostID    string `json:"postId"`
	LikeCount int    `json:"likeCount"`
	Liked     bool   `json:"liked"`
}

// APIError is a non-2xx response from the store
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("instaclone: %d: %s", e.Status, e.Message)
}

// Session is the signed-in user and its tokens. It is safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token"`
	ExpiresAt    time.Time `yaml:"expires_at"`
	User         User      `yaml:"user"`
}

// expirySkew refreshes a little before the server would reject the token
const expirySkew = 30 * time.Second

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.User.ID
}

func (s *Session) CurrentUser() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.User
}

func (s *Session) SetUser(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.User = user
}

func (s *Session) accessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.AccessToken
}

func (s *Session) refreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RefreshToken
}

func (s *Session) expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.ExpiresAt.IsZero() && now.Add(expirySkew).After(s.ExpiresAt)
}

func (s *Session) update(from *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AccessToken = from.AccessToken
	s.RefreshToken = from.RefreshToken
	s.ExpiresAt = from.ExpiresAt
	s.User = from.User
}
