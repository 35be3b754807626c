package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/org-directory-bot/internal/observability"
)

// MetricsHandler exposes the in-memory counters for operators.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler returns a new handler instance.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Snapshot dumps dialogue, error, and request counters as JSON.
func (h *MetricsHandler) Snapshot(c *fiber.Ctx) error {
	events, errs, requests := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"dialog_events": events,
		"errors":        errs,
		"http_requests": requests,
	})
}
