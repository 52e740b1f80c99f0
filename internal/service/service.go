package service

import (
	"context"
	"time"

	"github.com/BloggingApp/post-web/internal/client"
	"github.com/BloggingApp/post-web/internal/dto"
	"github.com/BloggingApp/post-web/internal/model"
	"github.com/BloggingApp/post-web/internal/repository"
	"go.uber.org/zap"
)

// AuthAPI is the account half of the posts API.
type AuthAPI interface {
	Login(ctx context.Context, input dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, input dto.RegisterRequest) (*dto.RegisterResponse, error)
}

// PostsAPI is the posts half of the posts API.
type PostsAPI interface {
	ListAll(ctx context.Context, token string, page int, limit int) (*model.PagedPosts, error)
	ListMine(ctx context.Context, token string, page int, limit *int) (*model.PagedPosts, error)
	ListAccounts(ctx context.Context, token string) ([]model.Account, error)
	View(ctx context.Context, token string, id string) (*model.Post, error)
	Create(ctx context.Context, token string, input dto.PostRequest) (*model.Post, error)
	Edit(ctx context.Context, token string, id string, input dto.PostRequest) (*model.Post, error)
	Delete(ctx context.Context, token string, id string) error
}

type Post interface {
	ListAll(ctx context.Context, token string, page int, limit int) (*model.PagedPosts, error)
	ListMine(ctx context.Context, token string, page int, limit *int) (*model.PagedPosts, error)
	ListAccounts(ctx context.Context, token string) ([]model.Account, error)
	View(ctx context.Context, token string, id string) (*model.Post, error)
	Create(ctx context.Context, token string, title, body string, tags []string) (*model.Post, error)
	Edit(ctx context.Context, token string, id string, title, body string, tags []string) (*model.Post, error)
	Delete(ctx context.Context, token string, id string) error
}

type Service struct {
	Post     Post
	Sessions *Sessions
	logger   *zap.Logger
}

func New(logger *zap.Logger, api *client.Client, tokens repository.TokenSlot, sessionTTL time.Duration) *Service {
	return &Service{
		Post:     newPostService(logger, api),
		Sessions: NewSessions(logger, api, tokens, sessionTTL),
		logger:   logger,
	}
}

// NewController starts a posts view for the given session.
func (s *Service) NewController(state SessionState) *Controller {
	return NewController(s.logger, s.Post, state)
}
