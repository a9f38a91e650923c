package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/handler"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Channel *handler.ChannelHandler
	Query   *handler.QueryHandler
	Scrape  *handler.ScrapeHandler
	Stats   *handler.StatsHandler
	History *handler.HistoryHandler
	Filters *handler.FiltersHandler
	Export  *handler.ExportHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Probes and metrics sit outside the API group and its rate limits
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	readLimiter := middleware.NewReadRateLimiter()
	mutateLimiter := middleware.NewMutateRateLimiter()
	scrapeLimiter := middleware.NewScrapeRateLimiter()
	exportLimiter := middleware.NewExportRateLimiter()

	api := app.Group("/api")

	// Channel registry
	api.Get("/channels", h.Channel.List, readLimiter.Handler())
	api.Get("/channels/:channelId", h.Channel.Get, readLimiter.Handler())
	api.Delete("/channels/:channelId", h.Channel.Delete, mutateLimiter.Handler())
	api.Delete("/channels", h.Channel.Clear, mutateLimiter.Handler())

	// Filter options for the listing UI
	api.Get("/filters", h.Filters.Get, readLimiter.Handler())

	// Search query management
	api.Get("/queries", h.Query.List, readLimiter.Handler())
	api.Post("/queries", h.Query.Create, mutateLimiter.Handler())
	api.Post("/queries/bulk", h.Query.Bulk, mutateLimiter.Handler())
	api.Post("/queries/reset", h.Query.Reset, mutateLimiter.Handler())
	api.Put("/queries/:queryId", h.Query.Update, mutateLimiter.Handler())
	api.Delete("/queries/:queryId", h.Query.Delete, mutateLimiter.Handler())
	api.Delete("/queries", h.Query.Clear, mutateLimiter.Handler())

	// Scrape control
	api.Post("/scrape", h.Scrape.Trigger, scrapeLimiter.Handler())
	api.Get("/scrape/status", h.Scrape.Status, readLimiter.Handler())

	// Dashboards
	api.Get("/history", h.History.List, readLimiter.Handler())
	api.Get("/stats", h.Stats.Get, readLimiter.Handler())

	// CSV export
	api.Get("/export", h.Export.Export, exportLimiter.Handler())
}
