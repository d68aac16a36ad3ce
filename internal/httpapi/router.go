package httpapi

import (
	"net/http"

	"farmlink-be/internal/auth"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/metrics"
	"farmlink-be/internal/middleware"

	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	CORSOrigin string
	Tokens     *auth.TokenManager
	Revocation middleware.RevocationChecker
	Limiter    *middleware.RateLimiter

	GraphQL        http.Handler
	PaymentSuccess http.Handler
	Webhook        http.Handler
	ImageUpload    http.Handler
	Health         http.Handler
}

// NewRouter mounts every HTTP endpoint behind the shared middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	r.Method(http.MethodGet, "/healthz", cfg.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Stripe authenticates with the signature header, not a session.
	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}
		r.Method(http.MethodPost, "/webhook/payment", cfg.Webhook)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Tokens, cfg.Revocation))
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}

		r.Method(http.MethodGet, "/query", cfg.GraphQL)
		r.Method(http.MethodPost, "/query", cfg.GraphQL)
		r.Method(http.MethodGet, "/payment-success", cfg.PaymentSuccess)
		r.Method(http.MethodPost, "/products/images", cfg.ImageUpload)
	})

	return r
}
