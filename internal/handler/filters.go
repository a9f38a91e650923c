package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/middleware"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/service"
)

// subscriberRanges are the fixed dashboard filter buckets.
var subscriberRanges = []fiber.Map{
	{"label": "All", "min": 0, "max": 0},
	{"label": "< 1K", "min": 0, "max": 1000},
	{"label": "1K - 10K", "min": 1000, "max": 10000},
	{"label": "10K - 100K", "min": 10000, "max": 100000},
	{"label": "100K - 1M", "min": 100000, "max": 1000000},
	{"label": "> 1M", "min": 1000000, "max": 0},
}

type FiltersHandler struct {
	svc *service.ChannelService
}

func NewFiltersHandler(svc *service.ChannelService) *FiltersHandler {
	return &FiltersHandler{svc: svc}
}

// Get handles GET /api/filters — the option lists for the dashboard
// dropdowns, derived from what is actually in the registry.
func (h *FiltersHandler) Get(c fiber.Ctx) error {
	countries, languages, err := h.svc.FilterOptions(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch filter options")
	}
	return c.JSON(fiber.Map{
		"countries":        countries,
		"languages":        languages,
		"subscriberRanges": subscriberRanges,
	})
}
