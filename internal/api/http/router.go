package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/org-directory-bot/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Metrics *handlers.MetricsHandler
	// Webhook is nil when the bot runs in polling mode.
	Webhook     *handlers.TelegramWebhookHandler
	WebhookPath string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	if cfg.Webhook != nil {
		app.Post(cfg.WebhookPath, cfg.Webhook.Handle)
	}
}
