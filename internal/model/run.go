package model

import "time"

// Terminal statuses for a scrape run. A row stays in StatusRunning only
// while the orchestrator is live; startup recovery fails any leftovers.
const (
	StatusRunning      = "running"
	StatusCompleted    = "completed"
	StatusPartialQuota = "partial_quota_exhausted"
	StatusFailed       = "failed"
)

// ScrapeRun is one append-only run-history record. Immutable once
// CompletedAt is set.
type ScrapeRun struct {
	ID               int64      `json:"id"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	QueriesProcessed int        `json:"queriesProcessed"`
	QueriesFailed    int        `json:"queriesFailed"`
	ChannelsFound    int        `json:"channelsFound"`
	ChannelsNew      int        `json:"channelsNew"`
	ChannelsUpdated  int        `json:"channelsUpdated"`
	QuotaUsed        int        `json:"quotaUsed"`
	Status           string     `json:"status"`
	ErrorMessage     string     `json:"errorMessage,omitempty"`
}

// RunSummary is what the orchestrator hands back to the scheduler and the
// manual-trigger endpoint.
type RunSummary struct {
	RunID            int64  `json:"runId"`
	Status           string `json:"status"`
	QueriesProcessed int    `json:"queriesProcessed"`
	QueriesFailed    int    `json:"queriesFailed"`
	ChannelsFound    int    `json:"channelsFound"`
	ChannelsNew      int    `json:"channelsNew"`
	ChannelsUpdated  int    `json:"channelsUpdated"`
	QuotaUsed        int    `json:"quotaUsed"`
}
