// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/kondate/mealplanner/internal/infrastructure/config"
	"github.com/kondate/mealplanner/internal/infrastructure/http/handlers"
	"github.com/kondate/mealplanner/internal/infrastructure/http/middleware"
	"github.com/kondate/mealplanner/internal/infrastructure/monitoring"
)

// Server represents the JSON API HTTP server
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   *chi.Mux
	mealPlan *handlers.MealPlanHandlers
	health   *handlers.HealthHandlers
	metrics  *monitoring.MetricsCollector
	openAPI  *OpenAPIHandler
}

// NewServer creates a new API server instance. Metrics may be nil.
func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	mealPlan *handlers.MealPlanHandlers,
	health *handlers.HealthHandlers,
	metrics *monitoring.MetricsCollector,
) (*Server, error) {
	openAPI, err := NewOpenAPIHandler(log)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:   cfg,
		logger:   log.Named("api-server"),
		mealPlan: mealPlan,
		health:   health,
		metrics:  metrics,
		openAPI:  openAPI,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      otelhttp.NewHandler(s.router, "kondate-api"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     zap.NewStdLog(s.logger),
	}

	return s, nil
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware for API
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	r.Use(middleware.Compress(5))
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
	}

	r.Get("/up", s.health.Up)
	if s.metrics != nil && s.config.Monitoring.MetricsEnabled {
		r.Method(http.MethodGet, s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	r.Get("/api/v1/openapi.yaml", s.openAPI.ServeOpenAPISpec)
	r.Get("/api/v1/openapi.json", s.openAPI.ServeOpenAPIJSON)
	r.Get("/api/v1/docs", s.openAPI.ServeSwaggerUI)

	r.Route("/api/v1/meal_plans", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
		r.Use(middleware.JSONOnly())
		if s.config.RateLimit.Enabled {
			r.Use(middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst).Handler)
		}

		r.Post("/generate", s.mealPlan.Generate)
		r.Post("/regenerate_dish", s.mealPlan.RegenerateDish)
		r.Get("/latest", s.mealPlan.Latest)
		r.Get("/", s.mealPlan.List)
	})

	return r
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Shutdown gracefully shuts down the API server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}
