package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/splitemate/ledger/internal/adapter/http/handler"
	"github.com/splitemate/ledger/internal/adapter/http/middleware"
	"github.com/splitemate/ledger/internal/infrastructure/auth"
	"github.com/splitemate/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	BalanceHandler     *handler.BalanceHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	JWTManager         *auth.JWTManager
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Authentication. When no JWT manager is configured the service
		// trusts the gateway-set X-User-ID header.
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		} else {
			r.Use(middleware.HeaderAuth)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Post("/bulk", cfg.TransactionHandler.BulkFetch)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Get("/{id}/activity", cfg.TransactionHandler.Activity)
			r.Put("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
			r.Patch("/{id}/restore", cfg.TransactionHandler.Restore)
		})

		// Balances
		r.Get("/balances/pair", cfg.BalanceHandler.GetPair)
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/balance", cfg.BalanceHandler.GetNetBalance)
			r.Get("/ledger", cfg.BalanceHandler.GetLedger)
		})
	})

	return r
}
