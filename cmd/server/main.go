package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gofinance/internal/adapter/http"
	"github.com/iho/gofinance/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gofinance/internal/adapter/http/middleware"
	"github.com/iho/gofinance/internal/adapter/quote"
	postgresRepo "github.com/iho/gofinance/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gofinance/internal/adapter/repository/redis"
	"github.com/iho/gofinance/internal/infrastructure/auth"
	"github.com/iho/gofinance/internal/infrastructure/config"
	"github.com/iho/gofinance/internal/infrastructure/logger"
	"github.com/iho/gofinance/internal/infrastructure/metrics"
	"github.com/iho/gofinance/internal/infrastructure/postgres"
	"github.com/iho/gofinance/internal/infrastructure/redis"
	"github.com/iho/gofinance/internal/usecase"
)

const (
	quoteCachePrefix    = "gofinance:quote:"
	limiterCleanupEvery = time.Minute
	limiterMaxIdle      = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.DatabaseAutoMigrate {
		if err := postgres.NewMigrator(cfg.DatabaseURL, log).Up(); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	goalRepo := postgresRepo.NewGoalRepository(pool)
	cardRepo := postgresRepo.NewCreditCardRepository(pool)
	assetRepo := postgresRepo.NewAssetRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	quotes := quote.NewCachedProvider(
		quote.NewBrapiClient(cfg.QuoteAPIURL, cfg.QuoteAPIToken, cfg.QuoteTimeout),
		redisRepo.NewCache(redisClient, quoteCachePrefix),
		cfg.QuoteCacheTTL,
		m,
		log,
	)

	// Initialize use cases
	userUC := usecase.NewUserUseCase(txManager, userRepo, accountRepo, idGen)
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, transactionRepo, retrier, idGen, m)
	goalUC := usecase.NewGoalUseCase(goalRepo, idGen, m)
	cardUC := usecase.NewCreditCardUseCase(cardRepo, idGen)
	portfolioUC := usecase.NewPortfolioUseCase(txManager, assetRepo, quotes, idGen, log)
	dashboardUC := usecase.NewDashboardUseCase(accountRepo, transactionRepo, portfolioUC, cfg.DisplayCurrency)
	onboardingUC := usecase.NewOnboardingUseCase(txManager, userUC, userRepo, accountRepo, transactionRepo, assetRepo, idGen)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, transactionRepo, m)

	jwtManager := auth.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL)
	sessions := handler.NewSessions(jwtManager, cfg.SessionCookieSecure)

	routerCfg := httpAdapter.RouterConfig{
		AuthHandler:           handler.NewAuthHandler(userUC, sessions, m),
		AccountHandler:        handler.NewAccountHandler(accountUC),
		LedgerHandler:         handler.NewLedgerHandler(ledgerUC),
		GoalHandler:           handler.NewGoalHandler(goalUC),
		CreditCardHandler:     handler.NewCreditCardHandler(cardUC),
		PortfolioHandler:      handler.NewPortfolioHandler(portfolioUC),
		DashboardHandler:      handler.NewDashboardHandler(dashboardUC),
		OnboardingHandler:     handler.NewOnboardingHandler(onboardingUC, sessions),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler: handler.NewHealthHandler(pool, handler.PingerFunc(func(ctx context.Context) error {
			return redis.Ping(ctx, redisClient)
		})),
		SessionGate: apimiddleware.NewSessionGate(jwtManager),
		Idempotency: apimiddleware.NewIdempotencyMiddleware(idempotencyStore, cfg.IdempotencyTTL, m.IdempotentReplays, log),
		Metrics:     m,
		Gatherer:    registry,
		Logger:      log,
	}

	if cfg.RateLimitRPS > 0 {
		limiter := apimiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits)
		go limiter.RunCleanup(ctx, limiterCleanupEvery, limiterMaxIdle)
		routerCfg.RateLimiter = limiter
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
