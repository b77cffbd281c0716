// Package api provides the HTTP API server and handlers for the StreamLens dashboard.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/streamlens/streamlens-server/internal/config"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/metrics"
	"github.com/streamlens/streamlens-server/internal/ratelimit"
)

// apiVersion is reported in the OpenAPI document.
const apiVersion = "1.0.0"

// defaultTableLimit is the record table page size used when neither the
// request nor the configuration names one.
const defaultTableLimit = 100

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	limits   config.LimitsConfig
	metrics  *metrics.Metrics
	limiter  *ratelimit.KeyedLimiter
	router   *chi.Mux
	api      huma.API
	logger   *logger.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, services *Services, m *metrics.Metrics, limiter *ratelimit.KeyedLimiter, log *logger.Logger) *Server {
	s := &Server{
		services: services,
		limits:   cfg.Limits,
		metrics:  m,
		limiter:  limiter,
		router:   chi.NewRouter(),
		logger:   log,
	}
	if s.limits.TableLimit < 1 {
		s.limits.TableLimit = defaultTableLimit
	}

	s.setupMiddleware(cfg)

	humaConfig := huma.DefaultConfig(cfg.Server.Name, apiVersion)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerMetaRoutes()
	s.registerDashboardRoutes()
	s.registerRecordsRoutes()
	s.registerSearchRoutes()

	// Prometheus exposition stays outside huma: text format, no envelope.
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(cfg *config.Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(RateLimitMiddleware(s.limiter, s.metrics, s.logger))
}
