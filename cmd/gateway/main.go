package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/storage-gateway/internal/api/http"
	"github.com/spec-kit/storage-gateway/internal/api/http/handlers"
	"github.com/spec-kit/storage-gateway/internal/auth"
	"github.com/spec-kit/storage-gateway/internal/cloud"
	"github.com/spec-kit/storage-gateway/internal/config"
	"github.com/spec-kit/storage-gateway/internal/events"
	"github.com/spec-kit/storage-gateway/internal/observability"
	"github.com/spec-kit/storage-gateway/internal/persistence"
	"github.com/spec-kit/storage-gateway/internal/ratelimit"
	"github.com/spec-kit/storage-gateway/internal/repository"
	"github.com/spec-kit/storage-gateway/internal/service"
	"github.com/spec-kit/storage-gateway/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.Enabled() {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var auditRepo repository.AuditRepository
	if pg.Enabled() {
		auditRepo = repository.NewAuditRepository(pg.PoolHandle())
	}
	auditService := service.NewAuditService(dispatcher, auditRepo, logger)
	worker.StartAuditWorker(auditService)

	gate := auth.NewMiddleware(tokens, dispatcher, metrics)

	cloudClient, err := cloud.NewClient(cfg.Cloud)
	if err != nil {
		logger.Fatal("failed to init cloud client", zap.Error(err))
	}

	var redis *persistence.Redis
	var rateLimitHandler fiber.Handler
	if cfg.RateLimit.Enabled {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		rateLimitHandler = ratelimit.NewLimiter(redis.Client, cfg.RateLimit.PerMinute, logger).Middleware()
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics)
	storageHandler := handlers.NewStorageHandler(cloudClient, cfg.Cloud.ListMaxKeys)
	auditHandler := handlers.NewAuditHandler(auditService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Storage:        storageHandler,
		Audit:          auditHandler,
		AuthMiddleware: gate,
		RateLimit:      rateLimitHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
