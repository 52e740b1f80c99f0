package server

import (
	"context"
	"net/http"

	"github.com/BloggingApp/post-web/internal/config"
)

type Server struct {
	httpServer *http.Server
}

func New(cfg config.ServerConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:           ":" + cfg.Port,
			Handler:        cfg.Handler,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
		},
	}
}

// Run serves until Shutdown is called. It returns nil after a clean
// shutdown, including one that happened before Run started.
func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
