package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/volcano-atlas/internal/observability"
	"github.com/couchcryptid/volcano-atlas/internal/pipeline"
)

// SnapshotProvider exposes the current dataset and its readiness.
type SnapshotProvider interface {
	sharedobs.ReadinessChecker
	Snapshot() *pipeline.Snapshot
}

// Options configures the listener and the API middleware.
type Options struct {
	Addr string

	// CORSAllowedOrigins enables CORS for the listed origins. Empty disables it.
	CORSAllowedOrigins []string

	// RateLimitRPM caps API requests per client IP per minute. Zero disables it.
	RateLimitRPM int
}

// Server exposes the dashboard API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	data       SnapshotProvider
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the probe routes and the /api/v1 routes.
func NewServer(opts Options, data SnapshotProvider, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		data:    data,
		metrics: metrics,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(data))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimitRPM > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimitRPM, time.Minute))
		}
		r.Get("/options", s.handleOptions)
		r.Get("/map", s.handleMap)
		r.Get("/geometry", s.handleGeometry)
		r.Get("/countries", s.handleCountries)
		r.Get("/tables", s.handleTables)
		r.Get("/tables.xlsx", s.handleTablesWorkbook)
	})

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
