package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS channels (
		channel_id     TEXT PRIMARY KEY,
		channel_url    TEXT NOT NULL DEFAULT '',
		title          TEXT NOT NULL DEFAULT '',
		description    TEXT NOT NULL DEFAULT '',
		custom_url     TEXT NOT NULL DEFAULT '',
		country        TEXT NOT NULL DEFAULT '',
		language       TEXT NOT NULL DEFAULT '',
		subscribers    BIGINT NOT NULL DEFAULT 0,
		total_views    BIGINT NOT NULL DEFAULT 0,
		video_count    BIGINT NOT NULL DEFAULT 0,
		thumbnail_url  TEXT NOT NULL DEFAULT '',
		verdict        TEXT NOT NULL DEFAULT '',
		confidence     DOUBLE PRECISION NOT NULL DEFAULT 0,
		discovered_by  BIGINT[] NOT NULL DEFAULT '{}',
		discovered_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_channels_country ON channels (country)`,
	`CREATE INDEX IF NOT EXISTS idx_channels_language ON channels (language)`,
	`CREATE INDEX IF NOT EXISTS idx_channels_subscribers ON channels (subscribers DESC)`,
	`CREATE TABLE IF NOT EXISTS search_queries (
		id               BIGSERIAL PRIMARY KEY,
		query            TEXT NOT NULL,
		region_code      TEXT NOT NULL DEFAULT 'US',
		language_code    TEXT NOT NULL DEFAULT '',
		min_subscribers  BIGINT NOT NULL DEFAULT 0,
		max_subscribers  BIGINT NOT NULL DEFAULT 0,
		max_results      INT NOT NULL DEFAULT 25,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		last_run_at      TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS scrape_runs (
		id                 BIGSERIAL PRIMARY KEY,
		started_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at       TIMESTAMPTZ,
		queries_processed  INT NOT NULL DEFAULT 0,
		queries_failed     INT NOT NULL DEFAULT 0,
		channels_found     INT NOT NULL DEFAULT 0,
		channels_new       INT NOT NULL DEFAULT 0,
		channels_updated   INT NOT NULL DEFAULT 0,
		quota_used         INT NOT NULL DEFAULT 0,
		status             TEXT NOT NULL DEFAULT 'running',
		error_message      TEXT NOT NULL DEFAULT ''
	)`,
}

// DefaultQueries seed the query store on an empty database and back the
// reset endpoint. They target individual creators rather than brand
// channels.
var DefaultQueries = []model.SearchQuery{
	{Query: "how I made money with facebook ads", RegionCode: "US", MaxResults: 50},
	{Query: "my dropshipping journey", RegionCode: "US", MaxResults: 25},
	{Query: "how I grew my ecommerce store", RegionCode: "US", MaxResults: 25},
	{Query: "my marketing agency story", RegionCode: "US", MaxResults: 25},
	{Query: "facebook ads tutorial for beginners", RegionCode: "US", MaxResults: 25},
	{Query: "shopify store review honest", RegionCode: "US", MaxResults: 25},
	{Query: "day in my life entrepreneur", RegionCode: "US", MaxResults: 25},
	{Query: "side hustle online business", RegionCode: "US", MaxResults: 25},
	{Query: "affiliate marketing income report", RegionCode: "US", MaxResults: 25},
	{Query: "amazon fba journey", RegionCode: "US", MaxResults: 25},
}

// Migrate creates the schema if missing and seeds the default search
// queries when the table is empty.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM search_queries`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		for _, q := range DefaultQueries {
			_, err := pool.Exec(ctx,
				`INSERT INTO search_queries (query, region_code, max_results) VALUES ($1, $2, $3)`,
				q.Query, q.RegionCode, q.MaxResults)
			if err != nil {
				return err
			}
		}
		log.Printf("seeded %d default search queries", len(DefaultQueries))
	}

	return nil
}
