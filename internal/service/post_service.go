package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"instaclone/internal/config"
	"instaclone/internal/models"
	"instaclone/internal/repository"
	"instaclone/internal/storage"
)

// ImageUpload is the validated image part of a multipart request
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// LikeResult is the post's like state after a toggle
type LikeResult struct {
	PostID    string `json:"postId"`
	LikeCount int    `json:"likeCount"`
	Liked     bool   `json:"liked"`
}

type PostService interface {
	CreatePost(ctx context.Context, req repository.CreatePostRequest, image ImageUpload) (*models.Post, error)
	ListPosts(ctx context.Context, q repository.PostQuery) ([]*models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	AddLike(ctx context.Context, postID, userID string) (*LikeResult, error)
	RemoveLike(ctx context.Context, postID, userID string) (*LikeResult, error)
}

type postService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	userRepo repository.UserRepository
	storage  storage.Storage
	cfg      *config.Config
}

func NewPostService(postRepo repository.PostRepository, likeRepo repository.LikeRepository,
	userRepo repository.UserRepository, storage storage.Storage, cfg *config.Config) PostService {
	return &postService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		userRepo: userRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

// CreatePost uploads the image first, the object is removed again if the row cannot be stored
func (p *postService) CreatePost(ctx context.Context, req repository.CreatePostRequest, image ImageUpload) (*models.Post, error) {
	author, err := p.userRepo.GetUserByID(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		PostID:      uuid.New().String(),
		AuthorID:    req.AuthorID,
		Description: req.Description,
	}

	objectName, imageURL, err := p.storage.UploadImage(ctx, storage.Upload{
		Prefix:      storage.PrefixPosts,
		OwnerID:     post.PostID,
		FileName:    image.FileName,
		ContentType: image.ContentType,
		Size:        image.Size,
		Body:        image.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки изображения в MinIO: %w", err)
	}

	post.ImageURL = imageURL
	post.ImageObject = objectName

	err = p.postRepo.Create(ctx, post)
	if err != nil {
		if delErr := p.storage.DeleteImage(ctx, objectName); delErr != nil {
			log.Printf("Предупреждение: не удалось удалить из MinIO: %v", delErr)
		}
		return nil, fmt.Errorf("ошибка сохранения поста в БД: %w", err)
	}

	post.Author = &models.User{
		UserID:    author.UserID,
		Username:  author.Username,
		AvatarURL: author.AvatarURL,
	}

	return post, nil
}

func (p *postService) ListPosts(ctx context.Context, q repository.PostQuery) ([]*models.Post, error) {
	if q.Limit == 0 {
		q.Limit = p.cfg.FeedLimit
	}

	posts, err := p.postRepo.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := p.attachLikes(ctx, posts...); err != nil {
		return nil, err
	}

	return posts, nil
}

func (p *postService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := p.attachLikes(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) AddLike(ctx context.Context, postID, userID string) (*LikeResult, error) {
	if _, err := p.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	if err := p.likeRepo.Add(ctx, postID, userID); err != nil {
		return nil, err
	}

	return p.likeResult(ctx, postID, userID)
}

func (p *postService) RemoveLike(ctx context.Context, postID, userID string) (*LikeResult, error) {
	if _, err := p.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	if err := p.likeRepo.Remove(ctx, postID, userID); err != nil {
		return nil, err
	}

	return p.likeResult(ctx, postID, userID)
}

func (p *postService) likeResult(ctx context.Context, postID, userID string) (*LikeResult, error) {
	likes, err := p.likeRepo.LikedBy(ctx, []string{postID})
	if err != nil {
		return nil, err
	}

	post := models.Post{PostID: postID, LikedBy: likes[postID]}

	return &LikeResult{
		PostID:    postID,
		LikeCount: post.LikeCount(),
		Liked:     post.LikedByUser(userID),
	}, nil
}

func (p *postService) attachLikes(ctx context.Context, posts ...*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.PostID)
	}

	likes, err := p.likeRepo.LikedBy(ctx, ids)
	if err != nil {
		return err
	}

	for _, post := range posts {
		post.LikedBy = likes[post.PostID]
		if post.LikedBy == nil {
			post.LikedBy = []string{}
		}
	}

	return nil
}
