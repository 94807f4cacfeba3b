package service

import (
	"instaclone/internal/config"
	"instaclone/internal/repository"
	"instaclone/internal/storage"
)

type Service struct {
	User   UserService
	Post   PostService
	Auth   AuthService
	Tables TablesService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		User:   NewUserService(rep.User, storage, cfg),
		Post:   NewPostService(rep.Post, rep.Like, rep.User, storage, cfg),
		Auth:   NewAuthService(rep.User, cfg),
		Tables: NewTablesService(rep.Tables),
	}
}
