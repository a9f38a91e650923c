package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

// ErrInvalidBounds means a query's subscriber bounds are inverted.
var ErrInvalidBounds = errors.New("minSubscribers must not exceed maxSubscribers")

const queryColumns = `id, query, region_code, language_code, min_subscribers, max_subscribers,
	       max_results, is_active, last_run_at, created_at`

type QueryRepo struct {
	pool *pgxpool.Pool
}

func NewQueryRepo(pool *pgxpool.Pool) *QueryRepo {
	return &QueryRepo{pool: pool}
}

// List returns all search queries in stored order.
func (r *QueryRepo) List(ctx context.Context) ([]model.SearchQuery, error) {
	return r.list(ctx, fmt.Sprintf(`SELECT %s FROM search_queries ORDER BY id`, queryColumns))
}

// ListActive returns the queries the orchestrator should run, in stored order.
func (r *QueryRepo) ListActive(ctx context.Context) ([]model.SearchQuery, error) {
	return r.list(ctx, fmt.Sprintf(`SELECT %s FROM search_queries WHERE is_active ORDER BY id`, queryColumns))
}

func (r *QueryRepo) list(ctx context.Context, query string) ([]model.SearchQuery, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []model.SearchQuery
	for rows.Next() {
		var q model.SearchQuery
		err := rows.Scan(
			&q.ID, &q.Query, &q.RegionCode, &q.LanguageCode,
			&q.MinSubscribers, &q.MaxSubscribers, &q.MaxResults,
			&q.IsActive, &q.LastRunAt, &q.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// Create inserts a new query and returns its id.
func (r *QueryRepo) Create(ctx context.Context, req model.QueryCreateRequest) (int64, error) {
	if !boundsValid(req.MinSubscribers, req.MaxSubscribers) {
		return 0, ErrInvalidBounds
	}
	if req.RegionCode == "" {
		req.RegionCode = "US"
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 25
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO search_queries (query, region_code, language_code, min_subscribers, max_subscribers, max_results)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		req.Query, req.RegionCode, req.LanguageCode,
		req.MinSubscribers, req.MaxSubscribers, req.MaxResults,
	).Scan(&id)
	return id, err
}

// Update applies the non-nil fields of the request. Returns false when the
// query does not exist.
func (r *QueryRepo) Update(ctx context.Context, id int64, req model.QueryUpdateRequest) (bool, error) {
	var sets []string
	var args []any

	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Query != nil {
		set("query", *req.Query)
	}
	if req.RegionCode != nil {
		set("region_code", *req.RegionCode)
	}
	if req.LanguageCode != nil {
		set("language_code", *req.LanguageCode)
	}
	if req.MinSubscribers != nil {
		set("min_subscribers", *req.MinSubscribers)
	}
	if req.MaxSubscribers != nil {
		set("max_subscribers", *req.MaxSubscribers)
	}
	if req.MaxResults != nil {
		set("max_results", *req.MaxResults)
	}
	if req.IsActive != nil {
		set("is_active", *req.IsActive)
	}

	if len(sets) == 0 {
		return false, nil
	}

	// The bounds invariant must hold for the row as it will be stored, so
	// a partial update is checked against the values it leaves in place.
	if req.MinSubscribers != nil || req.MaxSubscribers != nil {
		var storedMin, storedMax int64
		err := r.pool.QueryRow(ctx,
			`SELECT min_subscribers, max_subscribers FROM search_queries WHERE id = $1`, id).
			Scan(&storedMin, &storedMax)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return false, nil
			}
			return false, err
		}
		if !boundsValid(effectiveBounds(storedMin, storedMax, req)) {
			return false, ErrInvalidBounds
		}
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE search_queries SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a query. Returns false when it does not exist.
func (r *QueryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM search_queries WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ClearAll removes every query and returns the number deleted.
func (r *QueryRepo) ClearAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM search_queries`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// BulkInsert adds several keyword queries sharing region and page size.
// Returns how many were inserted.
func (r *QueryRepo) BulkInsert(ctx context.Context, keywords []string, regionCode string, maxResults int) (int, error) {
	if regionCode == "" {
		regionCode = "US"
	}
	if maxResults <= 0 {
		maxResults = 25
	}

	added := 0
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		_, err := r.pool.Exec(ctx, `
			INSERT INTO search_queries (query, region_code, max_results) VALUES ($1, $2, $3)`,
			kw, regionCode, maxResults)
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// effectiveBounds resolves the subscriber bounds a query would hold after
// applying the update request on top of its stored values. Split out as a
// pure helper for unit testing.
func effectiveBounds(storedMin, storedMax int64, req model.QueryUpdateRequest) (minSubs, maxSubs int64) {
	minSubs, maxSubs = storedMin, storedMax
	if req.MinSubscribers != nil {
		minSubs = *req.MinSubscribers
	}
	if req.MaxSubscribers != nil {
		maxSubs = *req.MaxSubscribers
	}
	return minSubs, maxSubs
}

// boundsValid reports whether a min/max subscriber pair is usable. Zero
// means "unbounded" on either side.
func boundsValid(minSubs, maxSubs int64) bool {
	return minSubs <= 0 || maxSubs <= 0 || minSubs <= maxSubs
}

// Reset replaces the whole query set with the given defaults. Returns how
// many defaults were inserted.
func (r *QueryRepo) Reset(ctx context.Context, defaults []model.SearchQuery) (int, error) {
	if _, err := r.pool.Exec(ctx, `DELETE FROM search_queries`); err != nil {
		return 0, err
	}

	added := 0
	for _, q := range defaults {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO search_queries (query, region_code, max_results) VALUES ($1, $2, $3)`,
			q.Query, q.RegionCode, q.MaxResults)
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// MarkRun stamps a query's last-run time after the orchestrator processes it.
func (r *QueryRepo) MarkRun(ctx context.Context, id int64, ts time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE search_queries SET last_run_at = $2 WHERE id = $1`, id, ts)
	return err
}
