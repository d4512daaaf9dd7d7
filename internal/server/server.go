// Package server is a local stand-in for the cluster storage provisioning
// service. Volumes are directories under a root; the volume name is what the
// runtime step exports as K8S_STORAGE_CLAIM_NAME.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config configures the provisioning service.
type Config struct {
	Addr string // listen address (default ":8089")
	Root string // directory holding provisioned volumes
}

// volume is a provisioned volume owned by one execution.
type volume struct {
	Name       string
	Path       string
	StorageGiB int
	Created    time.Time
}

// Server serves POST /provision-storage, GET /health and GET /metrics.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    Config
	startTime time.Time
	metrics   *metrics

	mu      sync.Mutex
	volumes map[string]volume // keyed by execution token
}

// New creates a Server with all routes registered.
func New(cfg Config, logger *slog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8089"
	}
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "provisioner"),
		config:    cfg,
		startTime: time.Now(),
		metrics:   newMetrics(),
		volumes:   make(map[string]volume),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(s.metrics.middleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	r.With(executionTokenMiddleware).Post("/provision-storage", s.handleProvision)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.config.Root == "" {
		return errors.New("provisioner: volume root is required")
	}
	if err := os.MkdirAll(s.config.Root, 0o755); err != nil {
		return fmt.Errorf("provisioner: create root: %w", err)
	}

	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("provisioning service listening", "addr", s.config.Addr, "root", s.config.Root)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("provisioner: shutdown: %w", err)
		}
		s.logger.Info("provisioning service stopped")
		return nil
	}
}
