package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swaggyashwin/pathfinder/internal/middleware"
	"github.com/swaggyashwin/pathfinder/internal/service"
	"github.com/swaggyashwin/pathfinder/pkg/logger"
)

// RouterConfig carries what the router needs to build its handlers.
type RouterConfig struct {
	Service           *service.SessionService
	Journal           ReadinessChecker
	Logger            *logger.Logger
	JWTSecret         string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	StreamChunkDelay  time.Duration
}

// NewRouter builds the HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	healthHandler := NewHealthHandler(cfg.Journal)
	sessionHandler := NewSessionHandler(cfg.Service, cfg.Logger)
	streamHandler := NewStreamHandler(cfg.Service, cfg.Logger, cfg.StreamChunkDelay)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Get("/categories", sessionHandler.Categories)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Get("/", sessionHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)

				r.Post("/turns", sessionHandler.SubmitTurn)
				r.Post("/reset", sessionHandler.Reset)
				r.Get("/roadmap", sessionHandler.Export)
				r.Get("/archive", sessionHandler.Archive)
				r.Get("/journal", sessionHandler.Journal)

				// Streaming
				r.Post("/stream", streamHandler.StreamTurn)
			})
		})
	})

	return r
}
