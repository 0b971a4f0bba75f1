package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/truckparts/backend/internal/adapter/clover"
	httpAdapter "github.com/truckparts/backend/internal/adapter/http"
	"github.com/truckparts/backend/internal/adapter/http/handler"
	"github.com/truckparts/backend/internal/adapter/http/middleware"
	"github.com/truckparts/backend/internal/adapter/quickbooks"
	postgresRepo "github.com/truckparts/backend/internal/adapter/repository/postgres"
	redisRepo "github.com/truckparts/backend/internal/adapter/repository/redis"
	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/infrastructure/config"
	"github.com/truckparts/backend/internal/infrastructure/eventpublisher"
	"github.com/truckparts/backend/internal/infrastructure/logger"
	"github.com/truckparts/backend/internal/infrastructure/metrics"
	"github.com/truckparts/backend/internal/infrastructure/postgres"
	"github.com/truckparts/backend/internal/infrastructure/redis"
	"github.com/truckparts/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics registry
	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	productRepo := postgresRepo.NewProductRepository(pool)
	stockRepo := postgresRepo.NewStockRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	orderRepo := postgresRepo.NewOrderRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	credentialRepo := postgresRepo.NewCredentialRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient, appMetrics)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// External provider clients
	cloverConfig := clover.Config{
		BaseURL:   cfg.CloverBaseURL,
		AppID:     cfg.CloverAppID,
		AppSecret: cfg.CloverAppSecret,
		Timeout:   cfg.CloverTimeout,
	}
	qbConfig := quickbooks.Config{
		BaseURL:      cfg.QBBaseURL,
		RealmID:      cfg.QBRealmID,
		ClientID:     cfg.QBClientID,
		ClientSecret: cfg.QBClientSecret,
		CustomerRef:  cfg.QBCustomerRef,
		ItemRef:      cfg.QBItemRef,
		Timeout:      cfg.QBTimeout,
	}

	credentialUC := usecase.NewCredentialUseCase(txManager, credentialRepo, map[domain.Provider]usecase.TokenRefresher{
		domain.ProviderClover:     clover.NewRefresher(cloverConfig),
		domain.ProviderQuickBooks: quickbooks.NewRefresher(qbConfig),
	}, idGen)

	cloverClient := clover.NewClient(cloverConfig, credentialUC)
	qbClient := quickbooks.NewClient(qbConfig, credentialUC)

	// Initialize use cases
	productUC := usecase.NewProductUseCase(txManager, productRepo, stockRepo, movementRepo, outboxRepo, idGen, cache)
	ledgerUC := usecase.NewStockLedgerUseCase(txManager, productRepo, stockRepo, movementRepo, outboxRepo, idGen, retrier, appMetrics)
	checkoutUC := usecase.NewCheckoutUseCase(txManager, productRepo, stockRepo, movementRepo, orderRepo, outboxRepo, idGen, retrier, appMetrics)
	orderUC := usecase.NewOrderUseCase(txManager, orderRepo, outboxRepo, qbClient, idGen, appMetrics)
	reconciliationUC := usecase.NewReconciliationUseCase(stockRepo, movementRepo)
	syncUC := usecase.NewCloverSyncUseCase(txManager, productRepo, stockRepo, outboxRepo, cloverClient, idGen, appMetrics)

	// Outbox publisher drains pending events in the background
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(slog.Default()),
		Logger:     slog.Default(),
		Metrics:    appMetrics,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})

	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	go func() {
		if err := publisher.Start(publisherCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appMetrics)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-publisherCtx.Done():
				return
			case <-ticker.C:
				rateLimiter.CleanupLimiters()
			}
		}
	}()

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ProductHandler:     handler.NewProductHandler(productUC),
		StockHandler:       handler.NewStockHandler(ledgerUC, reconciliationUC),
		OrderHandler:       handler.NewOrderHandler(checkoutUC, orderUC),
		IntegrationHandler: handler.NewIntegrationHandler(credentialUC, syncUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        rateLimiter,
		Metrics:            appMetrics,
		Logger:             appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
