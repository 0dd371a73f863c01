package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/splitemate/ledger/internal/adapter/http"
	"github.com/splitemate/ledger/internal/adapter/http/handler"
	postgresRepo "github.com/splitemate/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/splitemate/ledger/internal/adapter/repository/redis"
	"github.com/splitemate/ledger/internal/infrastructure/auth"
	"github.com/splitemate/ledger/internal/infrastructure/config"
	"github.com/splitemate/ledger/internal/infrastructure/eventpublisher"
	"github.com/splitemate/ledger/internal/infrastructure/logger"
	"github.com/splitemate/ledger/internal/infrastructure/metrics"
	"github.com/splitemate/ledger/internal/infrastructure/postgres"
	"github.com/splitemate/ledger/internal/infrastructure/redis"
	"github.com/splitemate/ledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Run migrations
	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics registry
	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	idGen := postgresRepo.NewULIDGenerator()
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	participantRepo := postgresRepo.NewParticipantRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool, idGen)
	userRepo := postgresRepo.NewUserRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	retrier := postgresRepo.NewRetrier(log)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	transactionUC := usecase.NewTransactionUseCase(
		txManager, txnRepo, participantRepo, balanceRepo, userRepo,
		outboxRepo, auditRepo, retrier, cache, idGen, m,
	)
	balanceUC := usecase.NewBalanceUseCase(balanceRepo, userRepo, cache, log)

	// Initialize handlers
	transactionHandler := handler.NewTransactionHandler(transactionUC)
	balanceHandler := handler.NewBalanceHandler(balanceUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// JWT verification is optional. Without it the service trusts the
	// gateway-set X-User-ID header.
	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Outbox publisher. Events go to AMQP when configured, otherwise to
	// the log.
	var publisher eventpublisher.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := eventpublisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to amqp")
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("connected to amqp")
	} else {
		publisher = eventpublisher.NewLogPublisher(log)
	}

	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	eventPublisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})

	go func() {
		if err := eventPublisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: transactionHandler,
		BalanceHandler:     balanceHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		JWTManager:         jwtManager,
		Logger:             log,
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
