package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

// ErrRunInProgress means a trigger was rejected because a scrape run is
// already executing. Triggers are rejected, never queued.
var ErrRunInProgress = errors.New("scrape run already in progress")

// SchedulerStatus is the GET /api/scrape/status payload.
type SchedulerStatus struct {
	Running    bool       `json:"running"`
	LastRunAt  *time.Time `json:"lastRunAt,omitempty"`
	NextRunAt  *time.Time `json:"nextRunAt,omitempty"`
	LastStatus string     `json:"lastStatus,omitempty"`
}

// Scheduler serializes all scrape executions through one in-progress gate:
// the interval timer and manual triggers funnel into the same entry point,
// so at most one orchestrator run is ever live.
type Scheduler struct {
	scraper  *ScraperService
	interval time.Duration

	running atomic.Bool
	stopCh  chan struct{}

	mu         sync.Mutex
	lastRunAt  time.Time
	nextRunAt  time.Time
	lastStatus string
}

func NewScheduler(scraper *ScraperService, interval time.Duration) *Scheduler {
	return &Scheduler{
		scraper:  scraper,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the interval loop until the context is cancelled or Stop is
// called. The first scrape fires one interval after startup; if a previous
// run exhausted the quota the timer still fires again, since the budget
// may have reset by then.
func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("scheduler: starting (interval=%s)", s.interval)

	s.mu.Lock()
	s.nextRunAt = time.Now().Add(s.interval)
	s.mu.Unlock()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.TriggerNow(ctx); err != nil {
				if errors.Is(err, ErrRunInProgress) {
					log.Println("scheduler: run still in progress, skipping tick")
				} else {
					log.Printf("scheduler: scheduled run error: %v", err)
				}
			}
			s.mu.Lock()
			s.nextRunAt = time.Now().Add(s.interval)
			s.mu.Unlock()
		case <-ctx.Done():
			log.Println("scheduler: stopping (context cancelled)")
			return
		case <-s.stopCh:
			log.Println("scheduler: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the interval loop to exit.
func (s *Scheduler) Stop() {
	close(s.stopCh)
}

// TriggerNow runs a scrape immediately unless one is already executing,
// in which case the trigger is rejected with ErrRunInProgress. Exactly one
// concurrent caller wins the gate.
func (s *Scheduler) TriggerNow(ctx context.Context) (*model.RunSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	summary, err := s.scraper.Run(ctx)

	s.mu.Lock()
	s.lastRunAt = time.Now()
	if summary != nil {
		s.lastStatus = summary.Status
	} else {
		s.lastStatus = model.StatusFailed
	}
	s.mu.Unlock()

	return summary, err
}

// Status reports the gate state and timing for the management surface.
func (s *Scheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SchedulerStatus{
		Running:    s.running.Load(),
		LastStatus: s.lastStatus,
	}
	if !s.lastRunAt.IsZero() {
		t := s.lastRunAt
		status.LastRunAt = &t
	}
	if !s.nextRunAt.IsZero() {
		t := s.nextRunAt
		status.NextRunAt = &t
	}
	return status
}
