package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"instaclone/internal/config"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	PrefixPosts   = "posts"
	PrefixAvatars = "avatars"
)

type Storage interface {
	UploadImage(ctx context.Context, upload Upload) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
	GetImageURL(ctx context.Context, objectName string) (string, error)
}

// Upload describes one image object. Prefix is PrefixPosts or PrefixAvatars, OwnerID is the post or user id.
type Upload struct {
	Prefix      string
	OwnerID     string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type MinIOClient struct {
	client *minio.Client
	config *config.Config
}

// publicReadPolicy lets clients fetch images by plain URL
const publicReadPolicy = `{
	"Version": "2012-10-17",
	"Statement": [{
		"Effect": "Allow",
		"Principal": {"AWS": ["*"]},
		"Action": ["s3:GetObject"],
		"Resource": ["arn:aws:s3:::%s/*"]
	}]
}`

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к MinIO: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bucket := cfg.MinIO.BucketName
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки бакета %s: %w", bucket, err)
	}

	if !exists {
		err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета %s: %w", bucket, err)
		}
		log.Printf("Бакет %s создан", bucket)
	}

	if !cfg.MinIO.Presign {
		err = client.SetBucketPolicy(ctx, bucket, fmt.Sprintf(publicReadPolicy, bucket))
		if err != nil {
			return nil, fmt.Errorf("ошибка установки политики бакета %s: %w", bucket, err)
		}
	}

	return &MinIOClient{client: client, config: cfg}, nil
}

func (m *MinIOClient) UploadImage(ctx context.Context, upload Upload) (string, string, error) {
	now := time.Now()
	objectName := ObjectName(upload, now, uuid.New().String())

	_, err := m.client.PutObject(ctx, m.config.MinIO.BucketName, objectName, upload.Body, upload.Size,
		minio.PutObjectOptions{
			ContentType: upload.ContentType,
			UserMetadata: map[string]string{
				"original-filename": upload.FileName,
				"owner-id":          upload.OwnerID,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	imageURL, err := m.GetImageURL(ctx, objectName)
	if err != nil {
		return "", "", err
	}

	return objectName, imageURL, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.MinIO.BucketName, objectName,
		minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}

// GetImageURL returns a presigned link when MINIO_PRESIGN is on, else the public bucket URL
func (m *MinIOClient) GetImageURL(ctx context.Context, objectName string) (string, error) {
	if !m.config.MinIO.Presign {
		return PublicURL(m.config.MinIO.PublicURL, m.config.MinIO.BucketName, objectName), nil
	}

	presigned, err := m.client.PresignedGetObject(ctx, m.config.MinIO.BucketName, objectName, m.config.MinIO.URLExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("ошибка получения ссылки на изображение: %w", err)
	}

	return presigned.String(), nil
}

// ObjectName builds prefix/owner/yyyy/mm/id.ext, the extension falls back to the content type
func ObjectName(upload Upload, now time.Time, id string) string {
	fileExt := strings.ToLower(filepath.Ext(upload.FileName))
	if fileExt == "" {
		if detected := mimetype.Lookup(upload.ContentType); detected != nil {
			fileExt = detected.Extension()
		}
	}
	if fileExt == "" {
		fileExt = ".jpg"
	}

	return fmt.Sprintf("%s/%s/%d/%02d/%s%s",
		upload.Prefix,
		upload.OwnerID,
		now.Year(),
		now.Month(),
		id,
		fileExt)
}

func PublicURL(base, bucket, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(base, "/"), bucket, objectName)
}
