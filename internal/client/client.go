package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"instaclone/internal/config"
)

const (
	headerApplicationID = "X-Application-Id"
	headerClientKey     = "X-Client-Key"
)

// Client talks to the instaclone store. Every request carries the application id and client key.
type Client struct {
	baseURL       string
	applicationID string
	clientKey     string
	http          *http.Client

	// refreshMu serialises token refreshes for all sessions of this client
	refreshMu sync.Mutex

	// OnRefresh is called after a session got new tokens, typically to persist it
	OnRefresh func(*Session)

	now func() time.Time
}

func New(cfg config.ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:       strings.TrimSuffix(cfg.ServerURL, "/"),
		applicationID: cfg.ApplicationID,
		clientKey:     cfg.ClientKey,
		http:          &http.Client{Timeout: timeout},
		now:           time.Now,
	}
}

type authResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         User      `json:"user"`
}

func (r *authResponse) session() *Session {
	return &Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt,
		User:         r.User,
	}
}

func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/login", username, password)
}

// Register creates the account and signs it in
func (c *Client) Register(ctx context.Context, username, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/register", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (*Session, error) {
	body := map[string]string{"username": username, "password": password}

	var resp authResponse
	if err := c.do(ctx, nil, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	return resp.session(), nil
}

// Logout invalidates the refresh token on the server
func (c *Client) Logout(ctx context.Context, s *Session) error {
	return c.do(ctx, s, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context, s *Session) (*User, error) {
	var user User
	if err := c.do(ctx, s, http.MethodGet, "/api/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUser(ctx context.Context, s *Session, userID string) (*User, error) {
	var user User
	if err := c.do(ctx, s, http.MethodGet, "/api/users/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// QueryPosts returns posts newest first with their author loaded
func (c *Client) QueryPosts(ctx context.Context, s *Session, q PostQuery) ([]Post, error) {
	values := url.Values{}
	if q.AuthorID != "" {
		values.Set("author", q.AuthorID)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	path := "/api/posts"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var resp struct {
		Posts []Post `json:"posts"`
	}
	if err := c.do(ctx, s, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	for i := range resp.Posts {
		if resp.Posts[i].LikedBy == nil {
			resp.Posts[i].LikedBy = []string{}
		}
	}

	return resp.Posts, nil
}

func (c *Client) GetPost(ctx context.Context, s *Session, postID string) (*Post, error) {
	var post Post
	if err := c.do(ctx, s, http.MethodGet, "/api/posts/"+url.PathEscape(postID), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// SavePost uploads the image file and the caption as one multipart request
func (c *Client) SavePost(ctx context.Context, s *Session, p NewPost) (*Post, error) {
	body, contentType, err := multipartBody(p.ImagePath, map[string]string{"description": p.Description})
	if err != nil {
		return nil, err
	}

	var post Post
	if err := c.doRaw(ctx, s, http.MethodPost, "/api/posts", body, contentType, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UploadAvatar(ctx context.Context, s *Session, imagePath string) (*User, error) {
	body, contentType, err := multipartBody(imagePath, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := c.doRaw(ctx, s, http.MethodPut, "/api/me/avatar", body, contentType, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) AddLike(ctx context.Context, s *Session, postID string) (*LikeResult, error) {
	return c.like(ctx, s, http.MethodPut, postID)
}

func (c *Client) RemoveLike(ctx context.Context, s *Session, postID string) (*LikeResult, error) {
	return c.like(ctx, s, http.MethodDelete, postID)
}

func (c *Client) like(ctx context.Context, s *Session, method, postID string) (*LikeResult, error) {
	var result LikeResult
	if err := c.do(ctx, s, method, "/api/posts/"+url.PathEscape(postID)+"/likes", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// refresh rotates the session tokens when the access token is about to expire
func (c *Client) refresh(ctx context.Context, s *Session) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// another call may have refreshed while we waited
	if !s.expired(c.now()) {
		return nil
	}

	body := map[string]string{"refreshToken": s.refreshToken()}

	var resp authResponse
	if err := c.do(ctx, nil, http.MethodPost, "/api/auth/refresh-token", body, &resp); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}

	s.update(resp.session())

	if c.OnRefresh != nil {
		c.OnRefresh(s)
	}
	return nil
}

func (c *Client) do(ctx context.Context, s *Session, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	return c.doRaw(ctx, s, method, path, body, contentType, out)
}

func (c *Client) doRaw(ctx context.Context, s *Session, method, path string, body io.Reader, contentType string, out interface{}) error {
	if s != nil && s.expired(c.now()) {
		if err := c.refresh(ctx, s); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set(headerApplicationID, c.applicationID)
	req.Header.Set(headerClientKey, c.clientKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s != nil {
		req.Header.Set("Authorization", "Bearer "+s.accessToken())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(raw))
	}
	if payload.Error == "" {
		payload.Error = http.StatusText(resp.StatusCode)
	}

	return &APIError{Status: resp.StatusCode, Message: payload.Error}
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func multipartBody(imagePath string, fields map[string]string) (io.Reader, string, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy image: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
