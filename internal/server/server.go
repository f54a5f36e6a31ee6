// Package server exposes the queue over HTTP: a thin control plane mapping
// queue operations onto routes and queue error kinds onto status codes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hopper/internal/config"
	"hopper/internal/observability"
	"hopper/internal/queue"
)

// Server wraps the queue store behind the HTTP control plane.
type Server struct {
	bind    string
	token   string
	store   *queue.Store
	logger  *slog.Logger
	metrics *observability.Metrics

	listener net.Listener
	server   *http.Server
}

// New constructs a server. metrics may be nil; an empty token disables
// authentication.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, metrics *observability.Metrics) (*Server, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("server requires config, store, and logger")
	}
	s := &Server{
		bind:    strings.TrimSpace(cfg.Paths.APIBind),
		token:   cfg.Paths.APIToken,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
	s.server = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Router builds the route tree. Exposed separately so tests can drive it
// through httptest without binding a socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.token))
		r.Post("/jobs", s.handleSubmit)
		r.Post("/jobs/claim", s.handleClaim)
		r.Get("/jobs/{id}", s.handleStatus)
		r.Post("/jobs/{id}/release", s.handleRelease)
		r.Post("/jobs/{id}/finalize", s.handleFinalize)
		r.Post("/jobs/{id}/move", s.handleMove)
		r.Get("/stats", s.handleStats)
	})
	return r
}

// Start listens and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", slog.String("error", err.Error()))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down outside of context cancellation.
func (s *Server) Stop() {
	if s == nil || s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound listen address, empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// countRequests feeds the HTTP request counter.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.metrics.ObserveHTTP(r.Method, ww.Status())
	})
}
