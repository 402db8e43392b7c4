package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gofinance/internal/adapter/http/handler"
	"github.com/iho/gofinance/internal/adapter/http/middleware"
	"github.com/iho/gofinance/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router. Metrics, Gatherer,
// RateLimiter and Idempotency are optional.
type RouterConfig struct {
	AuthHandler           *handler.AuthHandler
	AccountHandler        *handler.AccountHandler
	LedgerHandler         *handler.LedgerHandler
	GoalHandler           *handler.GoalHandler
	CreditCardHandler     *handler.CreditCardHandler
	PortfolioHandler      *handler.PortfolioHandler
	DashboardHandler      *handler.DashboardHandler
	OnboardingHandler     *handler.OnboardingHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler

	SessionGate *middleware.SessionGate
	Idempotency *middleware.IdempotencyMiddleware
	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Logger      zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Infrastructure endpoints, outside the session gate
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.SessionGate.Wrap)

		// Session endpoints set or clear cookies, which a replay cannot
		// reproduce, so they stay outside idempotency.
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/onboarding", cfg.OnboardingHandler.Onboard)
		r.Post("/logout", cfg.AuthHandler.Logout)
		r.Get("/me", cfg.AuthHandler.Me)

		r.Group(func(r chi.Router) {
			if cfg.Idempotency != nil {
				r.Use(cfg.Idempotency.Wrap)
			}
			mountAPI(r, cfg)
		})
	})

	return r
}

// mountAPI registers the routes that need a session and honour
// Idempotency-Key.
func mountAPI(r chi.Router, cfg RouterConfig) {
	r.Get("/dashboard", cfg.DashboardHandler.Get)
	r.Get("/reconciliation", cfg.ReconciliationHandler.Report)
	r.Get("/portfolio", cfg.PortfolioHandler.Valuate)

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", cfg.AccountHandler.Create)
		r.Get("/", cfg.AccountHandler.List)
		r.Get("/{id}", cfg.AccountHandler.Get)
		r.Get("/{id}/reconciliation", cfg.ReconciliationHandler.Account)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Post("/", cfg.LedgerHandler.Create)
		r.Get("/", cfg.LedgerHandler.List)
		r.Get("/{id}", cfg.LedgerHandler.Get)
		r.Put("/{id}", cfg.LedgerHandler.Update)
		r.Delete("/{id}", cfg.LedgerHandler.Delete)
	})

	r.Route("/goals", func(r chi.Router) {
		r.Post("/", cfg.GoalHandler.Create)
		r.Get("/", cfg.GoalHandler.List)
		r.Post("/{id}/deposits", cfg.GoalHandler.Deposit)
	})

	r.Route("/cards", func(r chi.Router) {
		r.Post("/", cfg.CreditCardHandler.Create)
		r.Get("/", cfg.CreditCardHandler.List)
	})

	r.Route("/assets", func(r chi.Router) {
		r.Post("/", cfg.PortfolioHandler.CreateAsset)
		r.Get("/", cfg.PortfolioHandler.ListAssets)
		r.Post("/{id}/orders", cfg.PortfolioHandler.AddOrder)
	})
}
