package repository

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

const runColumns = `id, started_at, completed_at, queries_processed, queries_failed,
	       channels_found, channels_new, channels_updated, quota_used, status, error_message`

type RunRepo struct {
	pool *pgxpool.Pool
}

func NewRunRepo(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

// Start opens a new run record in the running state and returns its id.
func (r *RunRepo) Start(ctx context.Context) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO scrape_runs (started_at, status) VALUES (NOW(), $1)
		RETURNING id`, model.StatusRunning).Scan(&id)
	return id, err
}

// Finalize writes the terminal state of a run. Runs are append-only
// history: once finalized they are never touched again.
func (r *RunRepo) Finalize(ctx context.Context, id int64, run model.ScrapeRun) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE scrape_runs
		SET completed_at = NOW(), queries_processed = $2, queries_failed = $3,
		    channels_found = $4, channels_new = $5, channels_updated = $6,
		    quota_used = $7, status = $8, error_message = $9
		WHERE id = $1`,
		id, run.QueriesProcessed, run.QueriesFailed,
		run.ChannelsFound, run.ChannelsNew, run.ChannelsUpdated,
		run.QuotaUsed, run.Status, run.ErrorMessage)
	return err
}

// List returns the most recent runs, newest first.
func (r *RunRepo) List(ctx context.Context, limit int) ([]model.ScrapeRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+runColumns+`
		FROM scrape_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.ScrapeRun
	for rows.Next() {
		var run model.ScrapeRun
		err := rows.Scan(
			&run.ID, &run.StartedAt, &run.CompletedAt,
			&run.QueriesProcessed, &run.QueriesFailed,
			&run.ChannelsFound, &run.ChannelsNew, &run.ChannelsUpdated,
			&run.QuotaUsed, &run.Status, &run.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Latest returns the most recent run, or nil when there is none.
func (r *RunRepo) Latest(ctx context.Context) (*model.ScrapeRun, error) {
	runs, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// RecoverIncomplete marks runs left in the running state (a previous
// process died mid-run) as failed. Called once at startup, before the
// scheduler starts.
func (r *RunRepo) RecoverIncomplete(ctx context.Context) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE scrape_runs
		SET status = $1, completed_at = NOW(), error_message = 'interrupted by process restart'
		WHERE status = $2`, model.StatusFailed, model.StatusRunning)
	if err != nil {
		return err
	}
	if n := tag.RowsAffected(); n > 0 {
		log.Printf("run recovery: marked %d interrupted run(s) as failed", n)
	}
	return nil
}
