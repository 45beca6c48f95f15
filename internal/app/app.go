package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Justice00000/nucleus-vault-app/internal/api"
	"github.com/Justice00000/nucleus-vault-app/internal/api/middleware"
	"github.com/Justice00000/nucleus-vault-app/internal/config"
	"github.com/Justice00000/nucleus-vault-app/internal/db"
	"github.com/Justice00000/nucleus-vault-app/internal/idempotency"
	"github.com/Justice00000/nucleus-vault-app/internal/notifier"
	"github.com/Justice00000/nucleus-vault-app/internal/observability"
	"github.com/Justice00000/nucleus-vault-app/internal/repository"
	"github.com/Justice00000/nucleus-vault-app/internal/service"
	"github.com/Justice00000/nucleus-vault-app/internal/storage"
	"github.com/Justice00000/nucleus-vault-app/internal/worker"
)

// Run bootstraps the HTTP server and outbox worker, blocking until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()
	middleware.SetJWTSecret(cfg.JWTSecret)
	middleware.SetJWTValidation(cfg.JWTIssuer, cfg.JWTAudience)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	redisClient, err := newRedisClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	publisher, err := newPublisher(cfg.AMQPURL, logger)
	if err != nil {
		return fmt.Errorf("connect broker: %w", err)
	}
	defer publisher.Close()

	objects, err := storage.NewFSStore(cfg.StorageDir)
	if err != nil {
		return fmt.Errorf("init document storage: %w", err)
	}

	idemStore := idempotency.NewStore(redisClient, pool, cfg.IdempotencyTTL)
	store := repository.NewStore(pool)

	auditSvc := service.NewAuditService()
	notifySvc := service.NewNotifyService()
	authSvc := service.NewAuthService(store, auditSvc)
	profileSvc := service.NewProfileService(store, auditSvc)
	accountSvc := service.NewAccountService(store)
	txSvc := service.NewTransactionService(store, auditSvc, notifySvc)
	kycSvc := service.NewKYCService(store, objects, auditSvc, notifySvc, logger)
	reviewSvc := service.NewReviewService(store, auditSvc, notifySvc)
	outboxSvc := service.NewOutboxService(store, publisher, logger)

	outboxWorker := worker.NewOutboxWorker(outboxSvc).
		WithPollInterval(cfg.OutboxPollInterval).
		WithBatchSize(cfg.OutboxBatchSize)

	stopWorker := outboxWorker.Run(ctx)
	logger.Info("outbox worker started",
		zap.Duration("interval", cfg.OutboxPollInterval),
		zap.Int32("batch", cfg.OutboxBatchSize))

	router := api.NewRouter(cfg, logger, pool, redisClient, idemStore,
		authSvc, profileSvc, accountSvc, txSvc, kycSvc, reviewSvc)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("stopping outbox worker")
	stopWorker()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func newRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// newPublisher connects to the broker when an AMQP URL is configured and
// falls back to the in-process mock otherwise, so local development does
// not require RabbitMQ.
func newPublisher(amqpURL string, logger *zap.Logger) (notifier.Publisher, error) {
	if strings.TrimSpace(amqpURL) == "" {
		logger.Warn("AMQP_URL not set, using mock notification publisher")
		return notifier.NewMockPublisher(logger), nil
	}
	return notifier.NewAMQPPublisher(amqpURL, logger)
}
