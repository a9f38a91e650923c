package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/classify"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/youtube"
)

var (
	scrapeRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creator_search_scrape_runs_total",
		Help: "Completed scrape runs, by terminal status.",
	}, []string{"status"})

	channelsDiscoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creator_search_channels_discovered_total",
		Help: "New creator channels added to the registry.",
	})

	channelsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creator_search_channels_updated_total",
		Help: "Existing registry channels refreshed by a scrape.",
	})

	candidatesRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creator_search_candidates_rejected_total",
		Help: "Candidates dropped before the registry, by reason.",
	}, []string{"reason"})

	scrapeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "creator_search_scrape_duration_seconds",
		Help:    "Wall-clock duration of full scrape runs.",
		Buckets: prometheus.DefBuckets,
	})
)

// searchClient is the slice of the YouTube client the orchestrator needs.
type searchClient interface {
	Search(ctx context.Context, req youtube.SearchRequest) (*youtube.SearchPage, error)
	ChannelDetails(ctx context.Context, ids []string) ([]model.Candidate, error)
	QuotaUsed() int
}

type queryStore interface {
	ListActive(ctx context.Context) ([]model.SearchQuery, error)
	MarkRun(ctx context.Context, id int64, ts time.Time) error
}

type channelStore interface {
	Upsert(ctx context.Context, ch model.Channel) (bool, error)
	AddProvenance(ctx context.Context, channelID string, queryIDs []int64) error
}

type runStore interface {
	Start(ctx context.Context) (int64, error)
	Finalize(ctx context.Context, id int64, run model.ScrapeRun) error
}

// ScraperService drives one scrape run: for each active query it paginates
// the search endpoint, batches detail lookups, classifies candidates and
// merges accepted creators into the registry.
//
// Failure containment: a provider APIError fails only the current query
// and the run moves on; quota exhaustion ends the whole run as
// partial_quota_exhausted, since no remaining query can proceed without
// budget.
type ScraperService struct {
	client     searchClient
	queries    queryStore
	channels   channelStore
	runs       runStore
	classifier *classify.Classifier
	cache      *CacheService
	maxPages   int
}

func NewScraperService(
	client searchClient,
	queries queryStore,
	channels channelStore,
	runs runStore,
	classifier *classify.Classifier,
	cache *CacheService,
	maxPagesPerQuery int,
) *ScraperService {
	if maxPagesPerQuery <= 0 {
		maxPagesPerQuery = 1
	}
	return &ScraperService{
		client:     client,
		queries:    queries,
		channels:   channels,
		runs:       runs,
		classifier: classifier,
		cache:      cache,
		maxPages:   maxPagesPerQuery,
	}
}

// decision remembers what happened to a channel id earlier in the same
// run, so a channel surfacing under several queries gets one detail
// lookup and accumulated provenance instead of repeated API calls.
type decision struct {
	accepted bool
}

// Run executes one full scrape and finalizes its history record. The
// returned summary mirrors the persisted scrape_runs row.
func (s *ScraperService) Run(ctx context.Context) (*model.RunSummary, error) {
	start := time.Now()

	runID, err := s.runs.Start(ctx)
	if err != nil {
		return nil, err
	}

	quotaBefore := s.client.QuotaUsed()
	run := model.ScrapeRun{Status: model.StatusCompleted}
	seen := make(map[string]*decision)

	queries, err := s.queries.ListActive(ctx)
	if err != nil {
		run.Status = model.StatusFailed
		run.ErrorMessage = err.Error()
		s.finalize(ctx, runID, run, quotaBefore, start)
		return nil, err
	}

	if len(queries) == 0 {
		run.ErrorMessage = "no active queries"
		s.finalize(ctx, runID, run, quotaBefore, start)
		return summaryOf(runID, run), nil
	}

	for _, q := range queries {
		found, created, updated, err := s.processQuery(ctx, q, seen)
		run.ChannelsFound += found
		run.ChannelsNew += created
		run.ChannelsUpdated += updated

		if err != nil {
			if errors.Is(err, youtube.ErrQuotaExhausted) {
				log.Printf("scrape: quota exhausted during query %d (%q), halting run", q.ID, q.Query)
				run.Status = model.StatusPartialQuota
				break
			}
			log.Printf("scrape: query %d (%q) failed: %v", q.ID, q.Query, err)
			run.QueriesFailed++
			run.QueriesProcessed++
			continue
		}

		run.QueriesProcessed++
		if err := s.queries.MarkRun(ctx, q.ID, time.Now().UTC()); err != nil {
			log.Printf("scrape: mark run for query %d: %v", q.ID, err)
		}
	}

	if run.QueriesFailed > 0 && run.Status == model.StatusCompleted {
		run.ErrorMessage = fmt.Sprintf("%d of %d queries failed", run.QueriesFailed, len(queries))
	}

	s.finalize(ctx, runID, run, quotaBefore, start)
	return summaryOf(runID, run), nil
}

// processQuery paginates one query, dedupes against the run-wide seen map,
// then classifies and merges the new candidates.
func (s *ScraperService) processQuery(ctx context.Context, q model.SearchQuery, seen map[string]*decision) (found, created, updated int, err error) {
	var newIDs []string
	pageToken := ""

	for page := 0; page < s.maxPages; page++ {
		result, err := s.client.Search(ctx, youtube.SearchRequest{
			Query:      q.Query,
			RegionCode: q.RegionCode,
			PageToken:  pageToken,
			MaxResults: q.MaxResults,
		})
		if err != nil {
			return found, created, updated, err
		}

		for _, id := range result.ChannelIDs {
			if dec, ok := seen[id]; ok {
				// Already handled this run; just accumulate provenance
				// for channels that made it into the registry.
				if dec.accepted {
					if err := s.channels.AddProvenance(ctx, id, []int64{q.ID}); err != nil {
						log.Printf("scrape: add provenance for %s: %v", id, err)
					}
				}
				continue
			}
			seen[id] = &decision{}
			newIDs = append(newIDs, id)
		}

		if result.NextPageToken == "" {
			break
		}
		pageToken = result.NextPageToken
	}

	if len(newIDs) == 0 {
		return found, created, updated, nil
	}

	candidates, err := s.client.ChannelDetails(ctx, newIDs)
	if err != nil {
		return found, created, updated, err
	}
	found = len(candidates)

	for _, cand := range candidates {
		cand.FoundBy = []int64{q.ID}

		result := s.classifier.Classify(cand)
		if !s.classifier.Accept(result) {
			candidatesRejectedTotal.WithLabelValues("classifier").Inc()
			log.Printf("scrape: dropped %q (%s, confidence %.2f)", cand.Title, result.Verdict, result.Confidence)
			continue
		}
		if !matchesQueryBounds(q, cand) {
			candidatesRejectedTotal.WithLabelValues("query_filter").Inc()
			continue
		}

		wasCreated, err := s.channels.Upsert(ctx, channelFromCandidate(cand, result))
		if err != nil {
			// Per-channel commits: one bad row must not sink the query.
			log.Printf("scrape: upsert %s: %v", cand.ChannelID, err)
			continue
		}

		// The provider may answer with an id that was never requested;
		// track it so the run stays consistent instead of panicking.
		dec := seen[cand.ChannelID]
		if dec == nil {
			dec = &decision{}
			seen[cand.ChannelID] = dec
		}
		dec.accepted = true
		if wasCreated {
			created++
			channelsDiscoveredTotal.Inc()
		} else {
			updated++
			channelsUpdatedTotal.Inc()
		}

		if s.cache != nil {
			if err := s.cache.InvalidateChannel(ctx, cand.ChannelID); err != nil {
				log.Printf("scrape: cache invalidate %s: %v", cand.ChannelID, err)
			}
		}
	}

	return found, created, updated, nil
}

func (s *ScraperService) finalize(ctx context.Context, runID int64, run model.ScrapeRun, quotaBefore int, start time.Time) {
	run.QuotaUsed = s.client.QuotaUsed() - quotaBefore
	if run.QuotaUsed < 0 {
		// Daily window rolled over mid-run.
		run.QuotaUsed = s.client.QuotaUsed()
	}

	if err := s.runs.Finalize(ctx, runID, run); err != nil {
		log.Printf("scrape: finalize run %d: %v", runID, err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateStats(ctx); err != nil {
			log.Printf("scrape: stats invalidate: %v", err)
		}
	}

	elapsed := time.Since(start)
	scrapeRunsTotal.WithLabelValues(run.Status).Inc()
	scrapeDuration.Observe(elapsed.Seconds())
	log.Printf("scrape: run %d %s — %d queries (%d failed), %d found, %d new, %d updated, %d quota units (%s)",
		runID, run.Status, run.QueriesProcessed, run.QueriesFailed,
		run.ChannelsFound, run.ChannelsNew, run.ChannelsUpdated,
		run.QuotaUsed, elapsed.Round(time.Millisecond))
}

// matchesQueryBounds applies the query's optional subscriber and language
// filters to a classified candidate.
func matchesQueryBounds(q model.SearchQuery, cand model.Candidate) bool {
	if q.MinSubscribers > 0 && cand.Subscribers < q.MinSubscribers {
		return false
	}
	if q.MaxSubscribers > 0 && cand.Subscribers > q.MaxSubscribers {
		return false
	}
	if q.LanguageCode != "" && cand.Language != q.LanguageCode {
		return false
	}
	return true
}

func channelFromCandidate(cand model.Candidate, result classify.Result) model.Channel {
	return model.Channel{
		ChannelID:    cand.ChannelID,
		ChannelURL:   "https://www.youtube.com/channel/" + cand.ChannelID,
		Title:        cand.Title,
		Description:  cand.Description,
		CustomURL:    cand.CustomURL,
		Country:      cand.Country,
		Language:     cand.Language,
		Subscribers:  cand.Subscribers,
		TotalViews:   cand.TotalViews,
		VideoCount:   cand.VideoCount,
		ThumbnailURL: cand.ThumbnailURL,
		Verdict:      string(result.Verdict),
		Confidence:   result.Confidence,
		DiscoveredBy: cand.FoundBy,
	}
}

func summaryOf(runID int64, run model.ScrapeRun) *model.RunSummary {
	return &model.RunSummary{
		RunID:            runID,
		Status:           run.Status,
		QueriesProcessed: run.QueriesProcessed,
		QueriesFailed:    run.QueriesFailed,
		ChannelsFound:    run.ChannelsFound,
		ChannelsNew:      run.ChannelsNew,
		ChannelsUpdated:  run.ChannelsUpdated,
		QuotaUsed:        run.QuotaUsed,
	}
}
