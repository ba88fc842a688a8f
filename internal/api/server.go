// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	handlerapi "github.com/newthinker/pms/internal/api/handler/api"
	"github.com/newthinker/pms/internal/api/middleware"
	"github.com/newthinker/pms/internal/app"
	"github.com/newthinker/pms/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the HTTP server for the journal
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	deps       Dependencies
	apiKey     string
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string
}

// Dependencies holds the services routes are bound to.
type Dependencies struct {
	App *app.App
	// Metrics is optional; nil disables /metrics and request metrics.
	Metrics *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.App == nil {
		return nil, fmt.Errorf("app dependency is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	mux := http.NewServeMux()

	s := &Server{
		logger: logger,
		mux:    mux,
		deps:   deps,
		apiKey: cfg.APIKey,
	}

	// Set up routes
	s.setupRoutes(cfg.MetricsPath)

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(metricsPath string) {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	if s.deps.Metrics != nil {
		s.mux.Handle("GET "+metricsPath, promhttp.HandlerFor(s.deps.Metrics, promhttp.HandlerOpts{}))
	}

	trades := handlerapi.NewTradesHandler(s.deps.App)
	reports := handlerapi.NewReportHandler(s.deps.App)

	s.handleAPI("GET /api/v1/trades", trades.List)
	s.handleAPI("POST /api/v1/trades", trades.Create)
	s.handleAPI("GET /api/v1/trades/{id}", func(w http.ResponseWriter, r *http.Request) {
		trades.Get(w, r, r.PathValue("id"))
	})
	s.handleAPI("PUT /api/v1/trades/{id}", func(w http.ResponseWriter, r *http.Request) {
		trades.Update(w, r, r.PathValue("id"))
	})
	s.handleAPI("DELETE /api/v1/trades/{id}", func(w http.ResponseWriter, r *http.Request) {
		trades.Delete(w, r, r.PathValue("id"))
	})

	s.handleAPI("GET /api/v1/report", reports.Report)
	s.handleAPI("GET /api/v1/dashboard", reports.Dashboard)
}

// handleAPI registers a route behind API key authentication.
func (s *Server) handleAPI(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, middleware.APIKeyAuth(s.apiKey)(h))
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
