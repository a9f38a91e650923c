package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/classify"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/youtube"
)

// fakeSearchClient scripts per-query search results and candidate details.
type fakeSearchClient struct {
	pages       map[string]*youtube.SearchPage
	searchErrs  map[string]error
	details     map[string]model.Candidate
	extra       []model.Candidate // returned on every detail call, never requested
	detailCalls [][]string
	searchCalls []string
	quota       int
}

func (f *fakeSearchClient) Search(_ context.Context, req youtube.SearchRequest) (*youtube.SearchPage, error) {
	f.searchCalls = append(f.searchCalls, req.Query)
	if err := f.searchErrs[req.Query]; err != nil {
		return nil, err
	}
	f.quota += youtube.SearchUnitCost
	if page, ok := f.pages[req.Query]; ok {
		return page, nil
	}
	return &youtube.SearchPage{}, nil
}

func (f *fakeSearchClient) ChannelDetails(_ context.Context, ids []string) ([]model.Candidate, error) {
	f.detailCalls = append(f.detailCalls, ids)
	f.quota += youtube.ChannelListUnitCost
	var out []model.Candidate
	for _, id := range ids {
		if cand, ok := f.details[id]; ok {
			out = append(out, cand)
		}
	}
	out = append(out, f.extra...)
	return out, nil
}

func (f *fakeSearchClient) QuotaUsed() int { return f.quota }

type fakeQueryStore struct {
	queries  []model.SearchQuery
	listErr  error
	markRuns []int64
}

func (f *fakeQueryStore) ListActive(context.Context) ([]model.SearchQuery, error) {
	return f.queries, f.listErr
}

func (f *fakeQueryStore) MarkRun(_ context.Context, id int64, _ time.Time) error {
	f.markRuns = append(f.markRuns, id)
	return nil
}

type fakeChannelStore struct {
	channels   map[string]model.Channel
	provenance map[string][]int64
}

func newFakeChannelStore() *fakeChannelStore {
	return &fakeChannelStore{
		channels:   make(map[string]model.Channel),
		provenance: make(map[string][]int64),
	}
}

func (f *fakeChannelStore) Upsert(_ context.Context, ch model.Channel) (bool, error) {
	_, exists := f.channels[ch.ChannelID]
	f.channels[ch.ChannelID] = ch
	f.provenance[ch.ChannelID] = append(f.provenance[ch.ChannelID], ch.DiscoveredBy...)
	return !exists, nil
}

func (f *fakeChannelStore) AddProvenance(_ context.Context, channelID string, queryIDs []int64) error {
	if _, exists := f.channels[channelID]; !exists {
		// Mirrors the repository: provenance never resurrects a deleted row.
		return nil
	}
	f.provenance[channelID] = append(f.provenance[channelID], queryIDs...)
	return nil
}

type fakeRunStore struct {
	nextID    int64
	finalized *model.ScrapeRun
}

func (f *fakeRunStore) Start(context.Context) (int64, error) {
	f.nextID++
	return f.nextID, nil
}

func (f *fakeRunStore) Finalize(_ context.Context, _ int64, run model.ScrapeRun) error {
	f.finalized = &run
	return nil
}

func creatorCandidate(id, title string) model.Candidate {
	return model.Candidate{
		ChannelID:   id,
		Title:       title,
		Description: "I'm a solo creator. Day in my life videos, how I built my studio.",
		Subscribers: 50_000,
		Language:    "english",
	}
}

func newTestScraper(client *fakeSearchClient, queries *fakeQueryStore, channels *fakeChannelStore, runs *fakeRunStore) *ScraperService {
	return NewScraperService(client, queries, channels, runs, classify.New(0.5), nil, 2)
}

func TestRunDiscoversAndUpdates(t *testing.T) {
	client := &fakeSearchClient{
		pages: map[string]*youtube.SearchPage{
			"vlog": {ChannelIDs: []string{"UC1", "UC2"}},
		},
		details: map[string]model.Candidate{
			"UC1": creatorCandidate("UC1", "Jane's Daily Vlog"),
			"UC2": creatorCandidate("UC2", "Sam's Workshop"),
		},
	}
	queries := &fakeQueryStore{queries: []model.SearchQuery{{ID: 1, Query: "vlog"}}}
	channels := newFakeChannelStore()
	runs := &fakeRunStore{}

	svc := newTestScraper(client, queries, channels, runs)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", summary.Status)
	}
	if summary.ChannelsNew != 2 || summary.ChannelsUpdated != 0 {
		t.Errorf("new/updated = %d/%d, want 2/0", summary.ChannelsNew, summary.ChannelsUpdated)
	}
	if len(queries.markRuns) != 1 || queries.markRuns[0] != 1 {
		t.Errorf("markRuns = %v, want [1]", queries.markRuns)
	}

	// A second run over the same results refreshes instead of re-creating.
	summary, err = svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if summary.ChannelsNew != 0 || summary.ChannelsUpdated != 2 {
		t.Errorf("second run new/updated = %d/%d, want 0/2", summary.ChannelsNew, summary.ChannelsUpdated)
	}
	if len(channels.channels) != 2 {
		t.Errorf("registry holds %d channels, want 2", len(channels.channels))
	}
}

func TestRunQueryFailureIsContained(t *testing.T) {
	client := &fakeSearchClient{
		pages: map[string]*youtube.SearchPage{
			"good": {ChannelIDs: []string{"UC1"}},
		},
		searchErrs: map[string]error{
			"bad": &youtube.APIError{StatusCode: 400, Reason: "invalidParameter"},
		},
		details: map[string]model.Candidate{
			"UC1": creatorCandidate("UC1", "Jane's Daily Vlog"),
		},
	}
	queries := &fakeQueryStore{queries: []model.SearchQuery{
		{ID: 1, Query: "bad"},
		{ID: 2, Query: "good"},
	}}
	channels := newFakeChannelStore()
	runs := &fakeRunStore{}

	svc := newTestScraper(client, queries, channels, runs)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed with partial failures", summary.Status)
	}
	if summary.QueriesFailed != 1 || summary.QueriesProcessed != 2 {
		t.Errorf("failed/processed = %d/%d, want 1/2", summary.QueriesFailed, summary.QueriesProcessed)
	}
	if _, ok := channels.channels["UC1"]; !ok {
		t.Error("successful query's channel missing from registry")
	}
	if runs.finalized == nil || runs.finalized.ErrorMessage == "" {
		t.Error("finalized run should note the partial failure")
	}
	// The failed query must not be marked as run.
	if len(queries.markRuns) != 1 || queries.markRuns[0] != 2 {
		t.Errorf("markRuns = %v, want [2]", queries.markRuns)
	}
}

func TestRunHaltsOnQuotaExhaustion(t *testing.T) {
	client := &fakeSearchClient{
		pages: map[string]*youtube.SearchPage{
			"first": {ChannelIDs: []string{"UC1"}},
		},
		searchErrs: map[string]error{
			"second": youtube.ErrQuotaExhausted,
		},
		details: map[string]model.Candidate{
			"UC1": creatorCandidate("UC1", "Jane's Daily Vlog"),
		},
	}
	queries := &fakeQueryStore{queries: []model.SearchQuery{
		{ID: 1, Query: "first"},
		{ID: 2, Query: "second"},
		{ID: 3, Query: "third"},
	}}
	channels := newFakeChannelStore()
	runs := &fakeRunStore{}

	svc := newTestScraper(client, queries, channels, runs)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Status != model.StatusPartialQuota {
		t.Errorf("status = %s, want %s", summary.Status, model.StatusPartialQuota)
	}
	if summary.QueriesProcessed != 1 {
		t.Errorf("processed = %d, want 1", summary.QueriesProcessed)
	}
	// Work done before exhaustion must be preserved.
	if _, ok := channels.channels["UC1"]; !ok {
		t.Error("channel from the first query missing from registry")
	}
	// The third query must never be attempted.
	for _, q := range client.searchCalls {
		if q == "third" {
			t.Error("third query was searched after quota exhaustion")
		}
	}
}

func TestRunDeduplicatesWithinRun(t *testing.T) {
	client := &fakeSearchClient{
		pages: map[string]*youtube.SearchPage{
			"alpha": {ChannelIDs: []string{"UC1", "UC2"}},
			"beta":  {ChannelIDs: []string{"UC1", "UC3"}},
		},
		details: map[string]model.Candidate{
			"UC1": creatorCandidate("UC1", "Jane's Daily Vlog"),
			"UC2": creatorCandidate("UC2", "Sam's Workshop"),
			"UC3": creatorCandidate("UC3", "Priya Sharma"),
		},
	}
	queries := &fakeQueryStore{queries: []model.SearchQuery{
		{ID: 1, Query: "alpha"},
		{ID: 2, Query: "beta"},
	}}
	channels := newFakeChannelStore()
	runs := &fakeRunStore{}

	svc := newTestScraper(client, queries, channels, runs)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.ChannelsNew != 3 {
		t.Errorf("new = %d, want 3 distinct channels", summary.ChannelsNew)
	}

	// UC1 surfaced under both queries but must be detailed only once.
	detailLookups := 0
	for _, batch := range client.detailCalls {
		for _, id := range batch {
			if id == "UC1" {
				detailLookups++
			}
		}
	}
	if detailLookups != 1 {
		t.Errorf("UC1 detailed %d times, want 1", detailLookups)
	}

	// Both queries end up in UC1's provenance.
	prov := channels.provenance["UC1"]
	seen := map[int64]bool{}
	for _, id := range prov {
		seen[id] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("UC1 provenance = %v, want both query ids", prov)
	}
}

func TestRunToleratesUnrequestedDetailIDs(t *testing.T) {
	client := &fakeSearchClient{
		pages: map[string]*youtube.SearchPage{
			"vlog": {ChannelIDs: []string{"UC1"}},
		},
		details: map[string]model.Candidate{
			"UC1": creatorCandidate("UC1", "Jane's Daily Vlog"),
		},
		// Detail response carries a channel id the search never surfaced.
		extra: []model.Candidate{creatorCandidate("UC-stray", "Sam's Workshop")},
	}
	queries := &fakeQueryStore{queries: []model.SearchQuery{{ID: 1, Query: "vlog"}}}
	channels := newFakeChannelStore()
	runs := &fakeRunStore{}

	svc := newTestScraper(client, queries, channels, runs)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", summary.Status)
	}
	if summary.ChannelsNew != 2 {
		t.Errorf("new = %d, want 2 (requested and stray id both merge)", summary.ChannelsNew)
	}
	if _, ok := channels.channels["UC-stray"]; !ok {
		t.Error("stray channel id missing from registry")
	}
}

func TestRunRejectsBrandsAndWeakVerdicts(t *testing.T) {
	brand := model.Candidate{
		ChannelID:   "UC9",
		Title:       "Official Coursera Channel",
		Description: "Subscribe to our channel for updates.",
		Subscribers: 10_000_000,
		Language:    "english",
	}
	weak := model.Candidate{
		ChannelID:   "UC8",
		Title:       "Random Channel Name",
		Description: "Videos.",
		Subscribers: 500_000,
		Language:    "english",
	}

	client := &fakeSearchClient{
		pages: map[string]*youtube.SearchPage{
			"mixed": {ChannelIDs: []string{"UC9", "UC8", "UC1"}},
		},
		details: map[string]model.Candidate{
			"UC9": brand,
			"UC8": weak,
			"UC1": creatorCandidate("UC1", "Jane's Daily Vlog"),
		},
	}
	queries := &fakeQueryStore{queries: []model.SearchQuery{{ID: 1, Query: "mixed"}}}
	channels := newFakeChannelStore()
	runs := &fakeRunStore{}

	svc := newTestScraper(client, queries, channels, runs)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.ChannelsFound != 3 {
		t.Errorf("found = %d, want 3", summary.ChannelsFound)
	}
	if summary.ChannelsNew != 1 {
		t.Errorf("new = %d, want only the confident creator", summary.ChannelsNew)
	}
	if _, ok := channels.channels["UC9"]; ok {
		t.Error("brand channel reached the registry")
	}
	if _, ok := channels.channels["UC8"]; ok {
		t.Error("low-confidence channel reached the registry")
	}
}

func TestRunAppliesQueryBounds(t *testing.T) {
	small := creatorCandidate("UC1", "Jane's Daily Vlog")
	small.Subscribers = 500
	large := creatorCandidate("UC2", "Sam's Workshop")
	large.Subscribers = 80_000

	client := &fakeSearchClient{
		pages: map[string]*youtube.SearchPage{
			"bounded": {ChannelIDs: []string{"UC1", "UC2"}},
		},
		details: map[string]model.Candidate{
			"UC1": small,
			"UC2": large,
		},
	}
	queries := &fakeQueryStore{queries: []model.SearchQuery{
		{ID: 1, Query: "bounded", MinSubscribers: 10_000},
	}}
	channels := newFakeChannelStore()
	runs := &fakeRunStore{}

	svc := newTestScraper(client, queries, channels, runs)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, ok := channels.channels["UC1"]; ok {
		t.Error("channel below the query's minimum subscribers was written")
	}
	if _, ok := channels.channels["UC2"]; !ok {
		t.Error("channel within bounds missing from registry")
	}
}

func TestRunEmptyQueryList(t *testing.T) {
	client := &fakeSearchClient{}
	queries := &fakeQueryStore{}
	runs := &fakeRunStore{}

	svc := newTestScraper(client, queries, newFakeChannelStore(), runs)

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", summary.Status)
	}
	if len(client.searchCalls) != 0 {
		t.Errorf("search called %d times with no active queries", len(client.searchCalls))
	}
}

func TestRunListFailureFailsRun(t *testing.T) {
	queries := &fakeQueryStore{listErr: errors.New("connection refused")}
	runs := &fakeRunStore{}

	svc := newTestScraper(&fakeSearchClient{}, queries, newFakeChannelStore(), runs)

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want query listing failure")
	}
	if runs.finalized == nil || runs.finalized.Status != model.StatusFailed {
		t.Errorf("finalized status = %+v, want failed", runs.finalized)
	}
}

func TestMatchesQueryBounds(t *testing.T) {
	tests := []struct {
		name  string
		query model.SearchQuery
		cand  model.Candidate
		want  bool
	}{
		{"no bounds", model.SearchQuery{}, model.Candidate{Subscribers: 5}, true},
		{"below min", model.SearchQuery{MinSubscribers: 1000}, model.Candidate{Subscribers: 500}, false},
		{"above max", model.SearchQuery{MaxSubscribers: 1000}, model.Candidate{Subscribers: 5000}, false},
		{"inside band", model.SearchQuery{MinSubscribers: 100, MaxSubscribers: 1000}, model.Candidate{Subscribers: 500}, true},
		{"language mismatch", model.SearchQuery{LanguageCode: "hindi"}, model.Candidate{Language: "english"}, false},
		{"language match", model.SearchQuery{LanguageCode: "hindi"}, model.Candidate{Language: "hindi"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesQueryBounds(tt.query, tt.cand); got != tt.want {
				t.Errorf("matchesQueryBounds() = %v, want %v", got, tt.want)
			}
		})
	}
}
