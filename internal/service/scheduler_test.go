package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/classify"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

// blockingQueryStore holds ListActive open until released, keeping a run
// in flight for as long as a test needs.
type blockingQueryStore struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingQueryStore) ListActive(context.Context) ([]model.SearchQuery, error) {
	b.entered <- struct{}{}
	<-b.release
	return nil, nil
}

func (b *blockingQueryStore) MarkRun(context.Context, int64, time.Time) error { return nil }

func TestTriggerNowRejectsConcurrentRuns(t *testing.T) {
	store := &blockingQueryStore{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	scraper := NewScraperService(&fakeSearchClient{}, store, newFakeChannelStore(), &fakeRunStore{}, classify.New(0.5), nil, 1)
	sched := NewScheduler(scraper, time.Hour)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := sched.TriggerNow(context.Background()); err != nil {
			t.Errorf("first TriggerNow() error = %v", err)
		}
	}()

	// Wait until the first run is inside the scraper, then trigger again.
	<-store.entered

	if _, err := sched.TriggerNow(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("second TriggerNow() error = %v, want ErrRunInProgress", err)
	}
	if !sched.Status().Running {
		t.Error("Status().Running = false while a run is in flight")
	}

	close(store.release)
	wg.Wait()

	// Gate must clear once the run finishes.
	if sched.Status().Running {
		t.Error("Status().Running = true after the run finished")
	}
}

func TestTriggerNowClearsGateAfterRun(t *testing.T) {
	scraper := NewScraperService(&fakeSearchClient{}, &fakeQueryStore{}, newFakeChannelStore(), &fakeRunStore{}, classify.New(0.5), nil, 1)
	sched := NewScheduler(scraper, time.Hour)

	for i := 0; i < 3; i++ {
		if _, err := sched.TriggerNow(context.Background()); err != nil {
			t.Fatalf("TriggerNow() #%d error = %v", i, err)
		}
	}

	status := sched.Status()
	if status.Running {
		t.Error("Running = true between runs")
	}
	if status.LastRunAt == nil {
		t.Error("LastRunAt not recorded")
	}
	if status.LastStatus != model.StatusCompleted {
		t.Errorf("LastStatus = %q, want completed", status.LastStatus)
	}
}
