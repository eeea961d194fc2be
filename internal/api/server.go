// ABOUTME: HTTP server wiring for the account API
// ABOUTME: Builds the route table and runs the server until its context is canceled

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/2389/coven-accounts/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Server serves the account API over HTTP.
type Server struct {
	accounts    store.AccountStore
	logger      *slog.Logger
	metrics     http.Handler
	metricsPath string
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes h (typically promhttp.HandlerFor) at path.
func WithMetrics(path string, h http.Handler) Option {
	return func(s *Server) {
		s.metricsPath = path
		s.metrics = h
	}
}

// New creates a Server backed by accounts.
func New(accounts store.AccountStore, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		accounts: accounts,
		logger:   logger.With("component", "api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/accounts", s.handleRegister)
	mux.HandleFunc("GET /api/accounts/{username}", s.handleGetAccount)
	mux.HandleFunc("POST /api/authenticate", s.handleAuthenticate)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/ready", s.handleReady)

	if s.metrics != nil {
		mux.Handle("GET "+s.metricsPath, s.metrics)
	}

	return mux
}

// Run listens on addr and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case err, ok := <-errCh:
		if ok {
			s.logger.Error("server error", "error", err)
			return fmt.Errorf("serving HTTP: %w", err)
		}
		return nil
	}

	// Uses context.Background() since ctx is already canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}
