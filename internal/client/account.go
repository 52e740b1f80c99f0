package client

import (
	"context"
	"net/http"

	"github.com/BloggingApp/post-web/internal/dto"
	"github.com/BloggingApp/post-web/internal/model"
)

func (c *Client) Login(ctx context.Context, input dto.LoginRequest) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/account/login", "", nil, input, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrBadResponse
	}

	return &resp, nil
}

func (c *Client) Register(ctx context.Context, input dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var resp dto.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/account/register", "", nil, input, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrBadResponse
	}

	return &resp, nil
}

func (c *Client) ListAccounts(ctx context.Context, token string) ([]model.Account, error) {
	var resp dto.AccountsResponse
	if err := c.do(ctx, http.MethodGet, "/accounts", token, nil, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Accounts, nil
}
