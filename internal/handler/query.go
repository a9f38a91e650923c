package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/db"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/middleware"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/repository"
)

type QueryHandler struct {
	repo *repository.QueryRepo
}

func NewQueryHandler(repo *repository.QueryRepo) *QueryHandler {
	return &QueryHandler{repo: repo}
}

// List handles GET /api/queries
func (h *QueryHandler) List(c fiber.Ctx) error {
	queries, err := h.repo.List(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list queries")
	}
	if queries == nil {
		queries = []model.SearchQuery{}
	}
	return c.JSON(queries)
}

// Create handles POST /api/queries
func (h *QueryHandler) Create(c fiber.Ctx) error {
	var req model.QueryCreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	query, errMsg := middleware.ValidateQueryText(req.Query)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Query = query

	region, errMsg := middleware.ValidateRegionCode(req.RegionCode)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.RegionCode = region

	id, err := h.repo.Create(c.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidBounds) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create query")
	}
	return c.JSON(fiber.Map{"success": true, "id": id})
}

// Update handles PUT /api/queries/:queryId
func (h *QueryHandler) Update(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("queryId"), 10, 64)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "queryId must be numeric")
	}

	var req model.QueryUpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	updated, err := h.repo.Update(c.Context(), id, req)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidBounds) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update query")
	}
	if !updated {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Query not found")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /api/queries/:queryId
func (h *QueryHandler) Delete(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("queryId"), 10, 64)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "queryId must be numeric")
	}

	deleted, err := h.repo.Delete(c.Context(), id)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete query")
	}
	if !deleted {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Query not found")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Clear handles DELETE /api/queries
func (h *QueryHandler) Clear(c fiber.Ctx) error {
	cleared, err := h.repo.ClearAll(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to clear queries")
	}
	return c.JSON(fiber.Map{"success": true, "cleared": cleared})
}

// Reset handles POST /api/queries/reset — drops every query and restores
// the seed set.
func (h *QueryHandler) Reset(c fiber.Ctx) error {
	added, err := h.repo.Reset(c.Context(), db.DefaultQueries)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reset queries")
	}
	return c.JSON(fiber.Map{"success": true, "added": added})
}

// Bulk handles POST /api/queries/bulk — newline-separated keywords.
func (h *QueryHandler) Bulk(c fiber.Ctx) error {
	var req model.BulkQueriesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	var keywords []string
	for _, line := range strings.Split(req.Queries, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			keywords = append(keywords, line)
		}
	}
	if len(keywords) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "No queries provided")
	}

	region, errMsg := middleware.ValidateRegionCode(req.RegionCode)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if req.ClearExisting {
		if _, err := h.repo.ClearAll(c.Context()); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to clear queries")
		}
	}

	added, err := h.repo.BulkInsert(c.Context(), keywords, region, req.MaxResults)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add queries")
	}
	return c.JSON(fiber.Map{"success": true, "added": added})
}
