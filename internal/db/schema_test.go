package db

import "testing"

func TestDefaultQueriesWellFormed(t *testing.T) {
	if len(DefaultQueries) == 0 {
		t.Fatal("DefaultQueries is empty; migration and reset would seed nothing")
	}

	seen := make(map[string]bool)
	for _, q := range DefaultQueries {
		if q.Query == "" {
			t.Error("default query with empty text")
		}
		if seen[q.Query] {
			t.Errorf("duplicate default query %q", q.Query)
		}
		seen[q.Query] = true

		if q.RegionCode == "" {
			t.Errorf("default query %q has no region code", q.Query)
		}
		if q.MaxResults <= 0 || q.MaxResults > 50 {
			t.Errorf("default query %q has max results %d, want 1-50", q.Query, q.MaxResults)
		}
	}
}
