package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/middleware"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/service"
)

type ChannelHandler struct {
	svc *service.ChannelService
}

func NewChannelHandler(svc *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

// List handles GET /api/channels
func (h *ChannelHandler) List(c fiber.Ctx) error {
	limit := middleware.ClampPageLimit(fiber.Query[int](c, "limit", middleware.DefaultPageLimit))
	offset := fiber.Query[int](c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	filter := model.ChannelFilter{
		Search:   fiber.Query[string](c, "search"),
		Country:  fiber.Query[string](c, "country"),
		Language: fiber.Query[string](c, "language"),
		MinSubs:  fiber.Query[int64](c, "minSubs", 0),
		MaxSubs:  fiber.Query[int64](c, "maxSubs", 0),
	}

	page, err := h.svc.List(c.Context(), filter, limit, offset)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list channels")
	}
	return c.JSON(page)
}

// Get handles GET /api/channels/:channelId
func (h *ChannelHandler) Get(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	ch, err := h.svc.Lookup(c.Context(), channelID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Channel not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to lookup channel")
	}
	return c.JSON(ch)
}

// Delete handles DELETE /api/channels/:channelId
// Deletion is final: the scraper never recreates a deleted channel within
// the same run.
func (h *ChannelHandler) Delete(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	deleted, err := h.svc.Delete(c.Context(), channelID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete channel")
	}
	if !deleted {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Channel not found")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Channel deleted"})
}

// Clear handles DELETE /api/channels
func (h *ChannelHandler) Clear(c fiber.Ctx) error {
	cleared, err := h.svc.ClearAll(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to clear channels")
	}
	return c.JSON(fiber.Map{"success": true, "cleared": cleared})
}
