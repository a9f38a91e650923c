package handler

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/middleware"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/service"
)

var csvHeader = []string{
	"channel_id", "channel_url", "title", "description", "custom_url",
	"country", "language", "subscribers", "total_views", "video_count",
	"verdict", "confidence", "discovered_at", "updated_at",
}

type ExportHandler struct {
	svc      *service.ChannelService
	rowLimit int
}

func NewExportHandler(svc *service.ChannelService, rowLimit int) *ExportHandler {
	if rowLimit <= 0 {
		rowLimit = 10000
	}
	return &ExportHandler{svc: svc, rowLimit: rowLimit}
}

// Export handles GET /api/export — the registry as a CSV download.
// Accepts the same filters as the channel listing.
func (h *ExportHandler) Export(c fiber.Ctx) error {
	filter := model.ChannelFilter{
		Search:   fiber.Query[string](c, "search"),
		Country:  fiber.Query[string](c, "country"),
		Language: fiber.Query[string](c, "language"),
		MinSubs:  fiber.Query[int64](c, "minSubs", 0),
		MaxSubs:  fiber.Query[int64](c, "maxSubs", 0),
	}

	page, err := h.svc.List(c.Context(), filter, h.rowLimit, 0)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to export channels")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build CSV")
	}
	for _, ch := range page.Channels {
		if err := w.Write(channelCSVRecord(ch)); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build CSV")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build CSV")
	}

	filename := "channels-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(buf.Bytes())
}

// channelCSVRecord flattens one channel row. Split out for unit testing.
func channelCSVRecord(ch model.Channel) []string {
	return []string{
		ch.ChannelID,
		ch.ChannelURL,
		ch.Title,
		ch.Description,
		ch.CustomURL,
		ch.Country,
		ch.Language,
		strconv.FormatInt(ch.Subscribers, 10),
		strconv.FormatInt(ch.TotalViews, 10),
		strconv.FormatInt(ch.VideoCount, 10),
		ch.Verdict,
		strconv.FormatFloat(ch.Confidence, 'f', 2, 64),
		ch.DiscoveredAt.UTC().Format(time.RFC3339),
		ch.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
