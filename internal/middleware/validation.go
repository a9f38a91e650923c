package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field limits matching database schema constraints and YouTube ID shapes.
const (
	MaxChannelIDLen  = 32  // YouTube channel IDs are 24 chars; allow slack
	MaxQueryTextLen  = 200 // search_queries.query
	MaxRegionCodeLen = 2   // ISO 3166-1 alpha-2
	MaxPageLimit     = 500
	DefaultPageLimit = 50
)

var (
	// channelIDRe matches YouTube channel IDs: alphanumeric, dash, underscore.
	channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// regionCodeRe matches uppercase two-letter country codes.
	regionCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateChannelID checks that a channel ID is well-formed.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "channelId is required"
	}
	if len(id) > MaxChannelIDLen {
		return "", "channelId must be at most 32 characters"
	}
	if !channelIDRe.MatchString(id) {
		return "", "channelId contains invalid characters"
	}
	return id, ""
}

// ValidateQueryText checks the keyword text of a search query.
func ValidateQueryText(q string) (string, string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", "query is required"
	}
	if len(q) > MaxQueryTextLen {
		return "", "query must be at most 200 characters"
	}
	return q, ""
}

// ValidateRegionCode checks an optional ISO country code. Empty is allowed.
func ValidateRegionCode(code string) (string, string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", ""
	}
	if !regionCodeRe.MatchString(code) {
		return "", "regionCode must be a two-letter country code"
	}
	return code, ""
}

// ClampPageLimit bounds a requested page size to sane values.
func ClampPageLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}
