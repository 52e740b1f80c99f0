package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/BloggingApp/post-web/internal/client"
	"github.com/BloggingApp/post-web/internal/client/clienttest"
	"github.com/BloggingApp/post-web/internal/dto"
	"github.com/BloggingApp/post-web/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(t *testing.T) (*client.Client, *clienttest.Server) {
	t.Helper()
	api := clienttest.NewServer(t)
	return client.New(zap.NewNop(), api.URL+"/", 5*time.Second), api
}

func TestLogin(t *testing.T) {
	c, api := newClient(t)
	api.AddAccount("ada", "ada@example.com", "secret1", model.RoleUser)

	resp, err := c.Login(context.Background(), dto.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = c.Login(context.Background(), dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	c, api := newClient(t)
	api.AddAccount("ada", "ada@example.com", "secret1", model.RoleUser)

	_, err := c.Register(context.Background(), dto.RegisterRequest{
		Username: "ada2",
		Email:    "ada@example.com",
		Password: "secret1",
		Role:     "user",
	})

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "email", apiErr.Field())
}

func TestListMineUsesPostWithEmptyBody(t *testing.T) {
	c, api := newClient(t)
	api.AddAccount("ada", "ada@example.com", "secret1", model.RoleUser)
	token := api.TokenFor("ada@example.com")

	_, err := c.ListMine(context.Background(), token, 2, nil)
	require.NoError(t, err)

	req, ok := api.LastRequest("/posts/mypost")
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.JSONEq(t, `{}`, string(req.Body))
	assert.Equal(t, []string{"2"}, req.Query["page"])
	assert.NotContains(t, req.Query, "limit")
	assert.Equal(t, "Bearer "+token, req.Authorization)

	limit := 9
	_, err = c.ListMine(context.Background(), token, 1, &limit)
	require.NoError(t, err)
	req, _ = api.LastRequest("/posts/mypost")
	assert.Equal(t, []string{"9"}, req.Query["limit"])
}

func TestListAll(t *testing.T) {
	c, api := newClient(t)
	admin := api.AddAccount("root", "root@example.com", "secret1", model.RoleAdmin)
	for i := 0; i < 7; i++ {
		api.AddPost(admin.UserID, "title", "body", "science")
	}

	posts, err := c.ListAll(context.Background(), api.TokenFor("root@example.com"), 2, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, posts.Page)
	assert.Equal(t, 2, posts.TotalPages)
	assert.Equal(t, 7, posts.TotalPosts)
	assert.Len(t, posts.Data, 1)

	req, _ := api.LastRequest("/posts")
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, []string{"6"}, req.Query["limit"])
}

func TestCreateEditDeleteView(t *testing.T) {
	c, api := newClient(t)
	api.AddAccount("ada", "ada@example.com", "secret1", model.RoleUser)
	token := api.TokenFor("ada@example.com")
	ctx := context.Background()

	created, err := c.Create(ctx, token, dto.NewPostRequest("A", "B", []string{"science"}))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Date)

	edited, err := c.Edit(ctx, token, created.ID, dto.NewPostRequest("A2", "B2", nil))
	require.NoError(t, err)
	assert.Equal(t, "A2", edited.Title)
	assert.Empty(t, edited.Tags)

	req, _ := api.LastRequest("/posts/edit/" + created.ID)
	assert.Equal(t, http.MethodPut, req.Method)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, []interface{}{}, body["tags"])

	viewed, err := c.View(ctx, token, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "B2", viewed.Body)

	require.NoError(t, c.Delete(ctx, token, created.ID))
	req, _ = api.LastRequest("/posts/delete/" + created.ID)
	assert.Equal(t, http.MethodDelete, req.Method)

	_, err = c.View(ctx, token, created.ID)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestListAccounts(t *testing.T) {
	c, api := newClient(t)
	api.AddAccount("root", "root@example.com", "secret1", model.RoleAdmin)
	api.AddAccount("ada", "ada@example.com", "secret1", model.RoleUser)

	accounts, err := c.ListAccounts(context.Background(), api.TokenFor("root@example.com"))
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestUnauthorizedIsClassified(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.ListAll(context.Background(), "garbage", 1, 6)
	assert.True(t, errors.Is(err, client.ErrUnauthorized))
}

func TestTransportError(t *testing.T) {
	c := client.New(zap.NewNop(), "http://127.0.0.1:1", time.Second)

	_, err := c.ListAccounts(context.Background(), "token")
	assert.ErrorIs(t, err, client.ErrTransport)
	assert.False(t, errors.Is(err, client.ErrUnauthorized))
}

func TestNoRetryOnFailure(t *testing.T) {
	c, api := newClient(t)
	api.AddAccount("ada", "ada@example.com", "secret1", model.RoleUser)
	api.FailNext("/posts/create", http.StatusBadGateway, map[string]interface{}{"details": "upstream down"})

	_, err := c.Create(context.Background(), api.TokenFor("ada@example.com"), dto.NewPostRequest("A", "B", nil))
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream down", apiErr.Message)

	count := 0
	for _, req := range api.Requests() {
		if req.Path == "/posts/create" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Empty(t, api.Posts())
}
