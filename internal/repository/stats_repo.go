package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

// Growth window for the dashboard chart.
const growthDays = 30

type StatsRepo struct {
	pool *pgxpool.Pool
	runs *RunRepo
}

func NewStatsRepo(pool *pgxpool.Pool, runs *RunRepo) *StatsRepo {
	return &StatsRepo{pool: pool, runs: runs}
}

// Collect gathers the dashboard statistics in one pass.
func (r *StatsRepo) Collect(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{
		ByCountry:  []model.CountryCount{},
		ByLanguage: []model.LanguageCount{},
		Growth:     []model.GrowthPoint{},
	}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(subscribers), 0) FROM channels`).
		Scan(&stats.TotalChannels, &stats.TotalSubscribers)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM search_queries WHERE is_active`).Scan(&stats.ActiveQueries)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(NULLIF(country, ''), 'Unknown'), COUNT(*)
		FROM channels
		GROUP BY 1
		ORDER BY COUNT(*) DESC
		LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cc model.CountryCount
		if err := rows.Scan(&cc.Country, &cc.Count); err != nil {
			return nil, err
		}
		stats.ByCountry = append(stats.ByCountry, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	langRows, err := r.pool.Query(ctx, `
		SELECT COALESCE(NULLIF(language, ''), 'Unknown'), COUNT(*)
		FROM channels
		GROUP BY 1
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer langRows.Close()
	for langRows.Next() {
		var lc model.LanguageCount
		if err := langRows.Scan(&lc.Language, &lc.Count); err != nil {
			return nil, err
		}
		stats.ByLanguage = append(stats.ByLanguage, lc)
	}
	if err := langRows.Err(); err != nil {
		return nil, err
	}

	growth, err := r.growth(ctx)
	if err != nil {
		return nil, err
	}
	stats.Growth = growth

	stats.LastRun, err = r.runs.Latest(ctx)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// growth counts first discoveries per day over the recent window, derived
// from the immutable discovered_at timestamps.
func (r *StatsRepo) growth(ctx context.Context) ([]model.GrowthPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date_trunc('day', discovered_at), 'YYYY-MM-DD'), COUNT(*)
		FROM channels
		WHERE discovered_at > NOW() - make_interval(days => $1)
		GROUP BY 1
		ORDER BY 1`, growthDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []model.GrowthPoint{}
	for rows.Next() {
		var p model.GrowthPoint
		if err := rows.Scan(&p.Day, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
