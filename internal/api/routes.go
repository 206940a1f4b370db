package api

import (
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouteOptions struct {
	RateLimitMax    int
	RateLimitWindow time.Duration
	LimiterStorage  fiber.Storage
	MetricsEnabled  bool
}

func SetupRoutes(app *fiber.App, handler *Handler, opts RouteOptions) {
	// Global middlewares
	app.Use(RequestID())
	app.Use(ErrorHandler())

	// Health checks (sem rate limiting)
	app.Get("/health", handler.HealthCheck)
	app.Get("/ready", handler.ReadinessCheck)

	if opts.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")
	// Metrics wrap the limiter so rejected requests are counted too.
	if opts.MetricsEnabled {
		v1.Use(PrometheusMiddleware())
	}
	if opts.RateLimitMax > 0 {
		v1.Use(RateLimiter(opts.RateLimitMax, opts.RateLimitWindow, opts.LimiterStorage))
	}

	equity := v1.Group("/equity")
	equity.Get("/:symbol/latest-price", handler.GetLatestPrice)
	equity.Get("/:symbol/summary", handler.GetSummary)

	v1.Get("/lookups", handler.GetLookups)
}
