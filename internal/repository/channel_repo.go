package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

const channelColumns = `channel_id, channel_url, title, description, custom_url, country, language,
	       subscribers, total_views, video_count, thumbnail_url, verdict, confidence,
	       discovered_by, discovered_at, updated_at`

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

// Upsert inserts a new channel or merges into an existing one. Volatile
// fields (counts, metadata, verdict) take the new observation; the
// provenance array is unioned; discovered_at is only ever written on
// insert. Returns true when a new row was created.
//
// Postgres row locking serializes concurrent upserts of the same channel
// id, so repeated or concurrent invocation cannot lose updates or create
// duplicates.
func (r *ChannelRepo) Upsert(ctx context.Context, ch model.Channel) (created bool, err error) {
	query := `
		INSERT INTO channels (
			channel_id, channel_url, title, description, custom_url, country, language,
			subscribers, total_views, video_count, thumbnail_url, verdict, confidence,
			discovered_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (channel_id) DO UPDATE SET
			title         = EXCLUDED.title,
			description   = EXCLUDED.description,
			custom_url    = EXCLUDED.custom_url,
			country       = EXCLUDED.country,
			language      = EXCLUDED.language,
			subscribers   = EXCLUDED.subscribers,
			total_views   = EXCLUDED.total_views,
			video_count   = EXCLUDED.video_count,
			thumbnail_url = EXCLUDED.thumbnail_url,
			verdict       = EXCLUDED.verdict,
			confidence    = EXCLUDED.confidence,
			updated_at    = NOW(),
			discovered_by = (
				SELECT ARRAY(
					SELECT DISTINCT q
					FROM unnest(channels.discovered_by || EXCLUDED.discovered_by) AS q
					ORDER BY q
				)
			)
		RETURNING (xmax = 0) AS created`

	err = r.pool.QueryRow(ctx, query,
		ch.ChannelID, ch.ChannelURL, ch.Title, ch.Description, ch.CustomURL,
		ch.Country, ch.Language, ch.Subscribers, ch.TotalViews, ch.VideoCount,
		ch.ThumbnailURL, ch.Verdict, ch.Confidence, ch.DiscoveredBy,
	).Scan(&created)
	return created, err
}

// AddProvenance unions extra discovering query ids into an existing row.
// A no-op when the channel has been deleted in the meantime: deletion is
// final and nothing here recreates the row.
func (r *ChannelRepo) AddProvenance(ctx context.Context, channelID string, queryIDs []int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE channels
		SET discovered_by = (
			SELECT ARRAY(
				SELECT DISTINCT q
				FROM unnest(discovered_by || $2::bigint[]) AS q
				ORDER BY q
			)
		), updated_at = NOW()
		WHERE channel_id = $1`, channelID, queryIDs)
	return err
}

// Get returns a single channel by its external id.
func (r *ChannelRepo) Get(ctx context.Context, channelID string) (*model.Channel, error) {
	query := fmt.Sprintf(`SELECT %s FROM channels WHERE channel_id = $1`, channelColumns)

	var ch model.Channel
	err := r.pool.QueryRow(ctx, query, channelID).Scan(
		&ch.ChannelID, &ch.ChannelURL, &ch.Title, &ch.Description, &ch.CustomURL,
		&ch.Country, &ch.Language, &ch.Subscribers, &ch.TotalViews, &ch.VideoCount,
		&ch.ThumbnailURL, &ch.Verdict, &ch.Confidence,
		&ch.DiscoveredBy, &ch.DiscoveredAt, &ch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// List returns channels matching the filter, ordered by subscriber count.
func (r *ChannelRepo) List(ctx context.Context, filter model.ChannelFilter, limit, offset int) ([]model.Channel, error) {
	where, args := buildChannelFilter(filter)
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s FROM channels
		%s
		ORDER BY subscribers DESC
		LIMIT $%d OFFSET $%d`, channelColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []model.Channel
	for rows.Next() {
		var ch model.Channel
		err := rows.Scan(
			&ch.ChannelID, &ch.ChannelURL, &ch.Title, &ch.Description, &ch.CustomURL,
			&ch.Country, &ch.Language, &ch.Subscribers, &ch.TotalViews, &ch.VideoCount,
			&ch.ThumbnailURL, &ch.Verdict, &ch.Confidence,
			&ch.DiscoveredBy, &ch.DiscoveredAt, &ch.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

// Count returns the number of channels matching the filter.
func (r *ChannelRepo) Count(ctx context.Context, filter model.ChannelFilter) (int64, error) {
	where, args := buildChannelFilter(filter)

	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM channels `+where, args...).Scan(&count)
	return count, err
}

// Delete removes a channel. Hard and final; the scraper never restores a
// deleted row.
func (r *ChannelRepo) Delete(ctx context.Context, channelID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM channels WHERE channel_id = $1`, channelID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ClearAll removes every channel and returns the number deleted.
func (r *ChannelRepo) ClearAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM channels`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Countries returns the distinct countries present in the registry.
func (r *ChannelRepo) Countries(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT country FROM channels WHERE country != '' ORDER BY country`)
}

// Languages returns the distinct inferred languages present in the registry.
func (r *ChannelRepo) Languages(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT language FROM channels WHERE language != '' ORDER BY language`)
}

func (r *ChannelRepo) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// buildChannelFilter turns a filter into a WHERE clause and its arguments.
// Split out as a pure helper for unit testing.
func buildChannelFilter(filter model.ChannelFilter) (string, []any) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		p := arg(pattern)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}
	if filter.Country != "" {
		conditions = append(conditions, "country = "+arg(filter.Country))
	}
	if filter.Language != "" {
		conditions = append(conditions, "language = "+arg(filter.Language))
	}
	if filter.MinSubs > 0 {
		conditions = append(conditions, "subscribers >= "+arg(filter.MinSubs))
	}
	if filter.MaxSubs > 0 {
		conditions = append(conditions, "subscribers <= "+arg(filter.MaxSubs))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
