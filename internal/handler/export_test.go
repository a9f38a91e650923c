package handler

import (
	"testing"
	"time"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

func TestChannelCSVRecord(t *testing.T) {
	discovered := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	updated := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	ch := model.Channel{
		ChannelID:    "UC111",
		ChannelURL:   "https://www.youtube.com/channel/UC111",
		Title:        "Jane's Daily Vlog",
		Description:  "Day in my life.",
		CustomURL:    "@janedaily",
		Country:      "US",
		Language:     "english",
		Subscribers:  45000,
		TotalViews:   900000,
		VideoCount:   120,
		Verdict:      "creator",
		Confidence:   0.85,
		DiscoveredAt: discovered,
		UpdatedAt:    updated,
	}

	got := channelCSVRecord(ch)

	if len(got) != len(csvHeader) {
		t.Fatalf("record has %d fields, header has %d", len(got), len(csvHeader))
	}
	if got[0] != "UC111" || got[2] != "Jane's Daily Vlog" {
		t.Errorf("identity fields = %q, %q", got[0], got[2])
	}
	if got[7] != "45000" {
		t.Errorf("subscribers = %q, want 45000", got[7])
	}
	if got[11] != "0.85" {
		t.Errorf("confidence = %q, want 0.85", got[11])
	}
	if got[12] != "2025-06-01T10:30:00Z" {
		t.Errorf("discovered_at = %q", got[12])
	}
}

func TestSanitizeEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/channels/UC111", "/api/channels/:channelId"},
		{"/api/channels", "/api/channels"},
		{"/api/queries/7", "/api/queries/:queryId"},
		{"/api/stats", "/api/stats"},
	}

	for _, tt := range tests {
		if got := sanitizeEndpoint(tt.path); got != tt.want {
			t.Errorf("sanitizeEndpoint(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
