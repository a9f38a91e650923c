package youtube

import (
	"errors"
	"testing"
	"time"
)

func TestQuotaLedgerAccounting(t *testing.T) {
	l := NewQuotaLedger(10000)

	// Two searches and three detail batches: 2*100 + 3*1.
	for i := 0; i < 2; i++ {
		if err := l.Reserve(SearchUnitCost); err != nil {
			t.Fatalf("Reserve(search %d) = %v", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := l.Reserve(ChannelListUnitCost); err != nil {
			t.Fatalf("Reserve(batch %d) = %v", i, err)
		}
	}

	if got := l.Used(); got != 203 {
		t.Errorf("Used() = %d, want 203", got)
	}
	if got := l.Remaining(); got != 9797 {
		t.Errorf("Remaining() = %d, want 9797", got)
	}
}

func TestQuotaLedgerRejectsOverrun(t *testing.T) {
	l := NewQuotaLedger(150)

	if err := l.Reserve(SearchUnitCost); err != nil {
		t.Fatalf("first Reserve = %v", err)
	}

	// 100 used, 50 left: another search must be rejected before any
	// network effect, and the counter must be untouched.
	if err := l.Reserve(SearchUnitCost); !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("second Reserve = %v, want ErrQuotaExhausted", err)
	}
	if got := l.Used(); got != 100 {
		t.Errorf("Used() after rejection = %d, want 100", got)
	}

	// The cheap batch call still fits.
	if err := l.Reserve(ChannelListUnitCost); err != nil {
		t.Errorf("batch Reserve after rejection = %v", err)
	}
}

func TestQuotaLedgerMarkExhausted(t *testing.T) {
	l := NewQuotaLedger(10000)

	if err := l.Reserve(SearchUnitCost); err != nil {
		t.Fatalf("Reserve = %v", err)
	}

	l.MarkExhausted()

	if got := l.Remaining(); got != 0 {
		t.Errorf("Remaining() after MarkExhausted = %d, want 0", got)
	}
	if err := l.Reserve(ChannelListUnitCost); !errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("Reserve after MarkExhausted = %v, want ErrQuotaExhausted", err)
	}
}

func TestQuotaLedgerResetsAtUTCMidnight(t *testing.T) {
	current := time.Date(2025, 3, 10, 23, 50, 0, 0, time.UTC)
	l := NewQuotaLedger(200)
	l.now = func() time.Time { return current }

	if err := l.Reserve(SearchUnitCost); err != nil {
		t.Fatalf("Reserve = %v", err)
	}
	if err := l.Reserve(SearchUnitCost); err != nil {
		t.Fatalf("second Reserve = %v", err)
	}
	if err := l.Reserve(ChannelListUnitCost); !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("Reserve at ceiling = %v, want ErrQuotaExhausted", err)
	}

	// Cross UTC midnight and the full budget is back.
	current = time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC)

	if got := l.Used(); got != 0 {
		t.Errorf("Used() after reset = %d, want 0", got)
	}
	if err := l.Reserve(SearchUnitCost); err != nil {
		t.Errorf("Reserve after reset = %v", err)
	}
}

func TestQuotaLedgerExhaustionSurvivesUntilReset(t *testing.T) {
	current := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	l := NewQuotaLedger(10000)
	l.now = func() time.Time { return current }

	l.MarkExhausted()
	if err := l.Reserve(ChannelListUnitCost); !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("Reserve while exhausted = %v, want ErrQuotaExhausted", err)
	}

	// Same day, hours later: still pinned.
	current = current.Add(8 * time.Hour)
	if err := l.Reserve(ChannelListUnitCost); !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("Reserve later same day = %v, want ErrQuotaExhausted", err)
	}

	// Next UTC day: clear again.
	current = current.Add(6 * time.Hour)
	if err := l.Reserve(SearchUnitCost); err != nil {
		t.Errorf("Reserve next day = %v", err)
	}
}
