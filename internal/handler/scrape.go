package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/middleware"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/service"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/youtube"
)

type ScrapeHandler struct {
	sched  *service.Scheduler
	ledger *youtube.QuotaLedger
}

func NewScrapeHandler(sched *service.Scheduler, ledger *youtube.QuotaLedger) *ScrapeHandler {
	return &ScrapeHandler{sched: sched, ledger: ledger}
}

// Trigger handles POST /api/scrape — manual run. Rejected with 409 when a
// run is already executing; triggers are never queued.
func (h *ScrapeHandler) Trigger(c fiber.Ctx) error {
	summary, err := h.sched.TriggerNow(c.Context())
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, "RUN_IN_PROGRESS", "A scrape run is already in progress")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Scrape run failed to start")
	}
	return c.JSON(summary)
}

// Status handles GET /api/scrape/status
func (h *ScrapeHandler) Status(c fiber.Ctx) error {
	status := h.sched.Status()
	return c.JSON(fiber.Map{
		"running":        status.Running,
		"lastRunAt":      status.LastRunAt,
		"nextRunAt":      status.NextRunAt,
		"lastStatus":     status.LastStatus,
		"quotaUsed":      h.ledger.Used(),
		"quotaRemaining": h.ledger.Remaining(),
	})
}
