package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/middleware"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/repository"
)

type HistoryHandler struct {
	repo *repository.RunRepo
}

func NewHistoryHandler(repo *repository.RunRepo) *HistoryHandler {
	return &HistoryHandler{repo: repo}
}

// List handles GET /api/history — recent scrape runs, newest first.
func (h *HistoryHandler) List(c fiber.Ctx) error {
	limit := fiber.Query[int](c, "limit", 20)

	runs, err := h.repo.List(c.Context(), limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch run history")
	}
	if runs == nil {
		runs = []model.ScrapeRun{}
	}
	return c.JSON(runs)
}
