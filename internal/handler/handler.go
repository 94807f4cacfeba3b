package handlers

import (
	"github.com/go-playground/validator/v10"
	"instaclone/internal/config"
	"instaclone/internal/service"
)

type Handlers struct {
	UserService   service.UserService
	AuthService   service.AuthService
	PostService   service.PostService
	TablesService service.TablesService
	Cfg           *config.Config
	Validate      *validator.Validate
}

func NewHandlers(service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		UserService:   service.User,
		AuthService:   service.Auth,
		PostService:   service.Post,
		TablesService: service.Tables,
		Cfg:           config,
		Validate:      validator.New(),
	}
}
