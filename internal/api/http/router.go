package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storage-gateway/internal/api/http/handlers"
	"github.com/spec-kit/storage-gateway/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Storage        *handlers.StorageHandler
	Audit          *handlers.AuditHandler
	AuthMiddleware *auth.Middleware
	RateLimit      fiber.Handler
}

// RegisterRoutes wires HTTP routes. Probe endpoints stay open; everything
// under /api sits behind the bearer token gate, with the rate limiter (when
// enabled) running before authentication.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Index)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/stats", cfg.Health.Stats)

	api := app.Group("/api")
	if cfg.RateLimit != nil {
		api.Use(cfg.RateLimit)
	}
	api.Use(cfg.AuthMiddleware.Handle)

	storage := api.Group("/storage")
	storage.Get("/buckets", cfg.Storage.ListBuckets)
	storage.Get("/objects", cfg.Storage.ListObjects)

	audit := api.Group("/audit")
	audit.Get("/decisions", cfg.Audit.ListDecisions)
	audit.Get("/summary", cfg.Audit.Summary)
}
