package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/repository"
)

type StatsService struct {
	repo  *repository.StatsRepo
	cache *CacheService
}

func NewStatsService(repo *repository.StatsRepo, cache *CacheService) *StatsService {
	return &StatsService{repo: repo, cache: cache}
}

// Get returns the dashboard statistics, cached briefly in Redis.
func (s *StatsService) Get(ctx context.Context) (*model.Stats, error) {
	if s.cache != nil {
		cached, err := s.cache.GetStats(ctx)
		if err != nil {
			log.Printf("cache: stats get error: %v", err)
		} else if cached != nil {
			var stats model.Stats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.repo.Collect(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetStats(ctx, stats); err != nil {
			log.Printf("cache: stats set error: %v", err)
		}
	}
	return stats, nil
}
