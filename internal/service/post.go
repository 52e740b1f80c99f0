package service

import (
	"context"

	"github.com/BloggingApp/post-web/internal/dto"
	"github.com/BloggingApp/post-web/internal/model"
	"go.uber.org/zap"
)

type postService struct {
	logger *zap.Logger
	api    PostsAPI
}

func newPostService(logger *zap.Logger, api PostsAPI) Post {
	return &postService{
		logger: logger,
		api:    api,
	}
}

func (s *postService) ListAll(ctx context.Context, token string, page int, limit int) (*model.PagedPosts, error) {
	posts, err := s.api.ListAll(ctx, token, page, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list posts(page %d, limit %d): %s", page, limit, err.Error())
		return nil, err
	}

	return posts, nil
}

func (s *postService) ListMine(ctx context.Context, token string, page int, limit *int) (*model.PagedPosts, error) {
	posts, err := s.api.ListMine(ctx, token, page, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list own posts(page %d): %s", page, err.Error())
		return nil, err
	}

	return posts, nil
}

func (s *postService) ListAccounts(ctx context.Context, token string) ([]model.Account, error) {
	accounts, err := s.api.ListAccounts(ctx, token)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list accounts: %s", err.Error())
		return nil, err
	}

	return accounts, nil
}

func (s *postService) View(ctx context.Context, token string, id string) (*model.Post, error) {
	post, err := s.api.View(ctx, token, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to view post(%s): %s", id, err.Error())
		return nil, err
	}

	return post, nil
}

func (s *postService) Create(ctx context.Context, token string, title, body string, tags []string) (*model.Post, error) {
	post, err := s.api.Create(ctx, token, dto.NewPostRequest(title, body, tags))
	if err != nil {
		s.logger.Sugar().Errorf("failed to create post: %s", err.Error())
		return nil, err
	}

	s.logger.Sugar().Infof("Post(%s) created", post.ID)

	return post, nil
}

func (s *postService) Edit(ctx context.Context, token string, id string, title, body string, tags []string) (*model.Post, error) {
	post, err := s.api.Edit(ctx, token, id, dto.NewPostRequest(title, body, tags))
	if err != nil {
		s.logger.Sugar().Errorf("failed to edit post(%s): %s", id, err.Error())
		return nil, err
	}

	return post, nil
}

func (s *postService) Delete(ctx context.Context, token string, id string) error {
	if err := s.api.Delete(ctx, token, id); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%s): %s", id, err.Error())
		return err
	}

	s.logger.Sugar().Infof("Post(%s) deleted", id)

	return nil
}
