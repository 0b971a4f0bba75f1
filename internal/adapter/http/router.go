package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/truckparts/backend/internal/adapter/http/handler"
	"github.com/truckparts/backend/internal/adapter/http/middleware"
	"github.com/truckparts/backend/internal/infrastructure/metrics"
	"github.com/truckparts/backend/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ProductHandler     *handler.ProductHandler
	StockHandler       *handler.StockHandler
	OrderHandler       *handler.OrderHandler
	IntegrationHandler *handler.IntegrationHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
	Metrics            *metrics.Metrics
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
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Products
		r.Route("/products", func(r chi.Router) {
			r.Post("/", cfg.ProductHandler.Create)
			r.Get("/", cfg.ProductHandler.List)
			r.Get("/{id}", cfg.ProductHandler.Get)
			r.Put("/{id}", cfg.ProductHandler.Update)
		})

		// Stock ledger
		r.Route("/stock", func(r chi.Router) {
			r.Post("/movements", cfg.StockHandler.AdjustBatch)
			r.Post("/reconcile", cfg.StockHandler.ReconcileAll)
			r.Get("/{productID}", cfg.StockHandler.GetQuantity)
			r.Post("/{productID}/movements", cfg.StockHandler.Adjust)
			r.Get("/{productID}/movements", cfg.StockHandler.ListMovements)
			r.Post("/{productID}/reconcile", cfg.StockHandler.Reconcile)
		})

		// Checkout and orders
		r.Post("/checkout", cfg.OrderHandler.Checkout)
		r.Post("/checkout/validate", cfg.OrderHandler.ValidateStock)
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", cfg.OrderHandler.List)
			r.Get("/{id}", cfg.OrderHandler.Get)
			r.Post("/{id}/pay", cfg.OrderHandler.Pay)
			r.Post("/{id}/cancel", cfg.OrderHandler.Cancel)
		})

		// External integrations
		r.Route("/integrations", func(r chi.Router) {
			r.Post("/credentials", cfg.IntegrationHandler.ConnectCredential)
			r.Post("/clover/{merchantID}/sync", cfg.IntegrationHandler.CloverSync)
		})
	})

	return r
}
