package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/BloggingApp/post-web/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownBeforeRunStopsServer(t *testing.T) {
	srv := New(config.ServerConfig{
		Port:    "0",
		Handler: http.NotFoundHandler(),
	})

	require.NoError(t, srv.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server kept running after shutdown")
	}
}

func TestRunReturnsAfterShutdown(t *testing.T) {
	srv := New(config.ServerConfig{
		Port:    "0",
		Handler: http.NotFoundHandler(),
	})

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
