package repository

import (
	"testing"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

func int64p(v int64) *int64 { return &v }

func TestEffectiveBounds(t *testing.T) {
	tests := []struct {
		name      string
		storedMin int64
		storedMax int64
		req       model.QueryUpdateRequest
		wantMin   int64
		wantMax   int64
	}{
		{"no bound fields keeps stored", 100, 1000, model.QueryUpdateRequest{}, 100, 1000},
		{"min only overrides min", 100, 1000, model.QueryUpdateRequest{MinSubscribers: int64p(200)}, 200, 1000},
		{"max only overrides max", 100, 1000, model.QueryUpdateRequest{MaxSubscribers: int64p(50)}, 100, 50},
		{"both override both", 100, 1000, model.QueryUpdateRequest{MinSubscribers: int64p(1), MaxSubscribers: int64p(2)}, 1, 2},
		{"zero clears a bound", 100, 1000, model.QueryUpdateRequest{MaxSubscribers: int64p(0)}, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := effectiveBounds(tt.storedMin, tt.storedMax, tt.req)
			if gotMin != tt.wantMin || gotMax != tt.wantMax {
				t.Errorf("effectiveBounds() = %d/%d, want %d/%d", gotMin, gotMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestBoundsValid(t *testing.T) {
	tests := []struct {
		name    string
		minSubs int64
		maxSubs int64
		want    bool
	}{
		{"both unbounded", 0, 0, true},
		{"min only", 1000, 0, true},
		{"max only", 0, 1000, true},
		{"valid band", 100, 1000, true},
		{"equal bounds", 500, 500, true},
		{"inverted band", 1000, 100, false},
		// The case a partial update can produce: a new min raised above a
		// stored max must be rejected, not committed.
		{"raised min crosses stored max", 200, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boundsValid(tt.minSubs, tt.maxSubs); got != tt.want {
				t.Errorf("boundsValid(%d, %d) = %v, want %v", tt.minSubs, tt.maxSubs, got, tt.want)
			}
		})
	}
}
