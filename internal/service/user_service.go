package service

import (
	"context"
	"fmt"
	"log"

	"instaclone/internal/config"
	"instaclone/internal/models"
	"instaclone/internal/repository"
	"instaclone/internal/storage"
)

type UserService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID string, image ImageUpload) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	storage  storage.Storage
	cfg      *config.Config
}

func NewUserService(userRepo repository.UserRepository, storage storage.Storage, cfg *config.Config) UserService {
	return &userService{
		userRepo: userRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) UpdateAvatar(ctx context.Context, userID string, image ImageUpload) (*models.User, error) {
	// get user by id
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	objectName, avatarURL, err := s.storage.UploadImage(ctx, storage.Upload{
		Prefix:      storage.PrefixAvatars,
		OwnerID:     userID,
		FileName:    image.FileName,
		ContentType: image.ContentType,
		Size:        image.Size,
		Body:        image.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки аватара в MinIO: %w", err)
	}

	err = s.userRepo.UpdateAvatar(ctx, userID, avatarURL)
	if err != nil {
		if delErr := s.storage.DeleteImage(ctx, objectName); delErr != nil {
			log.Printf("Предупреждение: не удалось удалить из MinIO: %v", delErr)
		}
		return nil, err
	}

	user.AvatarURL = avatarURL

	return user, nil
}
