// Package server provides the HTTP API server for Compass.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/config"
	"complyhq/compass/pkg/evaluation"
	"complyhq/compass/pkg/rules/engine"
	"complyhq/compass/pkg/server/handlers"
	"complyhq/compass/pkg/server/middleware"
	"complyhq/compass/pkg/telemetry/metrics"
)

// Server is the Compass HTTP API server. It owns the route table and the
// middleware chain; the catalog store, evaluation storage, and evaluator
// are injected.
type Server struct {
	config     *config.Config
	catalog    *catalog.Store
	storage    evaluation.Storage
	evaluator  *engine.Evaluator
	metrics    *metrics.Collector
	httpServer *http.Server

	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new API server.
func NewServer(cfg *config.Config, cat *catalog.Store, storage evaluation.Storage, evaluator *engine.Evaluator, collector *metrics.Collector) *Server {
	return &Server{
		config:       cfg,
		catalog:      cat,
		storage:      storage,
		evaluator:    evaluator,
		metrics:      collector,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting api server",
			"address", s.config.Server.ListenAddress,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("api server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	var em *metrics.EvaluationMetrics
	var hm *metrics.HTTPMetrics
	if s.metrics != nil {
		em = s.metrics.Evaluation()
		hm = s.metrics.HTTP()
	}

	route := func(name string, h http.Handler) http.Handler {
		return middleware.MetricsMiddleware(hm, name)(h)
	}

	mux.Handle("/api/intake", route("intake",
		handlers.NewIntakeHandler(s.catalog, s.storage, s.evaluator, em, true)))
	mux.Handle("/api/intake/preview", route("intake_preview",
		handlers.NewIntakeHandler(s.catalog, s.storage, s.evaluator, em, false)))
	mux.Handle("/api/obligations", route("obligations",
		handlers.NewObligationsHandler(s.catalog)))
	mux.Handle("/api/evaluations/{id}", route("evaluations",
		handlers.NewEvaluationsHandler(s.storage, s.catalog)))
	mux.Handle("/api/export/{evaluationId}", route("export",
		handlers.NewExportHandler(s.storage, s.catalog)))
	mux.Handle("/health", route("health", handlers.NewHealthHandler()))

	if s.metrics != nil && s.config.Telemetry.Metrics.Enabled {
		mux.Handle(s.config.Telemetry.Metrics.Path, s.metrics.Handler())
	}

	var handler http.Handler = mux

	corsConfig := s.convertCORSConfig()
	handler = middleware.CORSMiddleware(corsConfig)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// convertCORSConfig converts config.CORSConfig to middleware.CORSConfig.
func (s *Server) convertCORSConfig() *middleware.CORSConfig {
	return &middleware.CORSConfig{
		Enabled:        s.config.Server.CORS.Enabled,
		AllowedOrigins: s.config.Server.CORS.AllowedOrigins,
		AllowedMethods: s.config.Server.CORS.AllowedMethods,
		AllowedHeaders: s.config.Server.CORS.AllowedHeaders,
		MaxAge:         s.config.Server.CORS.MaxAge,
	}
}
