// Package server exposes the festplan engine as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/danieljhkim/festplan/internal/engine"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "festplan"

const (
	readTimeout     = 20 * time.Second
	writeTimeout    = 20 * time.Second
	shutdownTimeout = 10 * time.Second
	healthTimeout   = 3 * time.Second
)

// Planner is the subset of engine operations served over HTTP.
type Planner interface {
	Plan(ctx context.Context) (*engine.PlanResult, error)
	Status(ctx context.Context) (*engine.StatusResult, error)
	Browse(ctx context.Context, req *engine.BrowseRequest) (*engine.BrowseResult, error)
	Itinerary(ctx context.Context, req *engine.ItineraryRequest) (*engine.ItineraryResult, error)
	Conflicts(ctx context.Context, req *engine.ConflictsRequest) (*engine.ConflictsResult, error)
	Add(ctx context.Context, req *engine.AddRequest) (*engine.MutationResult, error)
	Remove(ctx context.Context, req *engine.RemoveRequest) (*engine.MutationResult, error)
	SetPriority(ctx context.Context, req *engine.SetPriorityRequest) (*engine.MutationResult, error)
	Swap(ctx context.Context, req *engine.SwapRequest) (*engine.MutationResult, error)
	Clear(ctx context.Context, req *engine.ClearRequest) (*engine.MutationResult, error)
}

// Server routes API requests to a Planner.
type Server struct {
	planner Planner
	logger  *zap.Logger
	router  *mux.Router
}

// New creates a Server with all routes registered.
func New(planner Planner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		planner: planner,
		logger:  logger,
		router:  mux.NewRouter(),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Handler:      s.router,
		Addr:         addr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server gracefully", zap.String("address", addr))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error during shutdown", zap.Error(err))
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	s.logger.Info("HTTP server shutdown complete")
	return nil
}

// HealthCheck probes the health endpoint of a server listening on addr.
func HealthCheck(ctx context.Context, addr string) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/health", nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}
	return nil
}
