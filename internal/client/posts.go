package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/BloggingApp/post-web/internal/dto"
	"github.com/BloggingApp/post-web/internal/model"
)

func pageQuery(page int, limit *int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if limit != nil {
		query.Set("limit", strconv.Itoa(*limit))
	}
	return query
}

func (c *Client) ListAll(ctx context.Context, token string, page int, limit int) (*model.PagedPosts, error) {
	var posts model.PagedPosts
	if err := c.do(ctx, http.MethodGet, "/posts", token, pageQuery(page, &limit), nil, &posts); err != nil {
		return nil, err
	}

	return &posts, nil
}

// ListMine lists the caller's posts. The API expects a POST with an empty
// object body; a nil limit leaves the page size to the server.
func (c *Client) ListMine(ctx context.Context, token string, page int, limit *int) (*model.PagedPosts, error) {
	var posts model.PagedPosts
	if err := c.do(ctx, http.MethodPost, "/posts/mypost", token, pageQuery(page, limit), struct{}{}, &posts); err != nil {
		return nil, err
	}

	return &posts, nil
}

func (c *Client) View(ctx context.Context, token string, id string) (*model.Post, error) {
	var post model.Post
	if err := c.do(ctx, http.MethodGet, "/posts/view/"+url.PathEscape(id), token, nil, nil, &post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (c *Client) Create(ctx context.Context, token string, input dto.PostRequest) (*model.Post, error) {
	var post model.Post
	if err := c.do(ctx, http.MethodPost, "/posts/create", token, nil, input, &post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (c *Client) Edit(ctx context.Context, token string, id string, input dto.PostRequest) (*model.Post, error) {
	var post model.Post
	if err := c.do(ctx, http.MethodPut, "/posts/edit/"+url.PathEscape(id), token, nil, input, &post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (c *Client) Delete(ctx context.Context, token string, id string) error {
	return c.do(ctx, http.MethodDelete, "/posts/delete/"+url.PathEscape(id), token, nil, nil, nil)
}
