package youtube

import (
	"sync"
	"time"
)

// QuotaLedger tracks quota units consumed against a daily ceiling. The
// window resets at UTC midnight, matching the provider's reset policy.
// Reserve must be called before any network request so that a call which
// would exceed the ceiling is rejected without network effect.
type QuotaLedger struct {
	mu    sync.Mutex
	limit int
	used  int
	day   time.Time

	now func() time.Time // injectable for tests
}

func NewQuotaLedger(dailyLimit int) *QuotaLedger {
	return &QuotaLedger{
		limit: dailyLimit,
		now:   time.Now,
	}
}

// Reserve consumes units from today's budget, rolling the window first if
// the UTC day has changed. Returns ErrQuotaExhausted if the reservation
// would exceed the ceiling; the counter is left untouched in that case.
func (l *QuotaLedger) Reserve(units int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollWindowLocked()

	if l.used+units > l.limit {
		return ErrQuotaExhausted
	}
	l.used += units
	return nil
}

// MarkExhausted pins today's counter to the ceiling. Called when the
// provider reports quota denial so subsequent calls fail fast locally.
func (l *QuotaLedger) MarkExhausted() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollWindowLocked()
	l.used = l.limit
}

// Used returns the units consumed in the current window.
func (l *QuotaLedger) Used() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollWindowLocked()
	return l.used
}

// Remaining returns the units left in the current window.
func (l *QuotaLedger) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollWindowLocked()
	return l.limit - l.used
}

func (l *QuotaLedger) rollWindowLocked() {
	today := l.now().UTC().Truncate(24 * time.Hour)
	if !today.Equal(l.day) {
		l.day = today
		l.used = 0
	}
}
