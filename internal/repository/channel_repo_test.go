package repository

import (
	"reflect"
	"testing"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

func TestBuildChannelFilter(t *testing.T) {
	tests := []struct {
		name       string
		filter     model.ChannelFilter
		wantClause string
		wantArgs   []any
	}{
		{
			name:       "no filters",
			filter:     model.ChannelFilter{},
			wantClause: "",
			wantArgs:   nil,
		},
		{
			name:       "search matches title and description",
			filter:     model.ChannelFilter{Search: "vlog"},
			wantClause: "WHERE (title ILIKE $1 OR description ILIKE $1)",
			wantArgs:   []any{"%vlog%"},
		},
		{
			name:       "country only",
			filter:     model.ChannelFilter{Country: "IN"},
			wantClause: "WHERE country = $1",
			wantArgs:   []any{"IN"},
		},
		{
			name:       "subscriber band",
			filter:     model.ChannelFilter{MinSubs: 1000, MaxSubs: 50000},
			wantClause: "WHERE subscribers >= $1 AND subscribers <= $2",
			wantArgs:   []any{int64(1000), int64(50000)},
		},
		{
			name:       "all filters combined",
			filter:     model.ChannelFilter{Search: "cook", Country: "IN", Language: "hindi", MinSubs: 500},
			wantClause: "WHERE (title ILIKE $1 OR description ILIKE $1) AND country = $2 AND language = $3 AND subscribers >= $4",
			wantArgs:   []any{"%cook%", "IN", "hindi", int64(500)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := buildChannelFilter(tt.filter)
			if clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", clause, tt.wantClause)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}
