package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/repository"
)

type ChannelService struct {
	repo  *repository.ChannelRepo
	cache *CacheService
}

func NewChannelService(repo *repository.ChannelRepo, cache *CacheService) *ChannelService {
	return &ChannelService{repo: repo, cache: cache}
}

// Lookup returns a single channel. Cache-aside: Redis first, DB on miss.
func (s *ChannelService) Lookup(ctx context.Context, channelID string) (*model.Channel, error) {
	if s.cache != nil {
		cached, err := s.cache.GetChannel(ctx, channelID)
		if err != nil {
			log.Printf("cache: channel get error: %v", err)
		} else if cached != nil {
			var ch model.Channel
			if err := json.Unmarshal(cached, &ch); err == nil {
				return &ch, nil
			}
		}
	}

	ch, err := s.repo.Get(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetChannel(ctx, channelID, ch); err != nil {
			log.Printf("cache: channel set error: %v", err)
		}
	}
	return ch, nil
}

// List returns a filtered, paginated page of the registry. Listings are
// not cached: the filter space is too wide to be worth keying.
func (s *ChannelService) List(ctx context.Context, filter model.ChannelFilter, limit, offset int) (*model.ChannelPage, error) {
	channels, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if channels == nil {
		channels = []model.Channel{}
	}
	return &model.ChannelPage{
		Channels: channels,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// Delete removes a channel permanently and drops it from cache.
func (s *ChannelService) Delete(ctx context.Context, channelID string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, channelID)
	if err != nil {
		return false, err
	}
	if deleted && s.cache != nil {
		if err := s.cache.InvalidateChannel(ctx, channelID); err != nil {
			log.Printf("cache: channel invalidate error: %v", err)
		}
		if err := s.cache.InvalidateStats(ctx); err != nil {
			log.Printf("cache: stats invalidate error: %v", err)
		}
	}
	return deleted, nil
}

// ClearAll removes every channel from the registry.
func (s *ChannelService) ClearAll(ctx context.Context) (int64, error) {
	cleared, err := s.repo.ClearAll(ctx)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateStats(ctx); err != nil {
			log.Printf("cache: stats invalidate error: %v", err)
		}
	}
	return cleared, nil
}

// FilterOptions lists the distinct countries and languages currently in
// the registry, for the dashboard filter dropdowns.
func (s *ChannelService) FilterOptions(ctx context.Context) (countries, languages []string, err error) {
	countries, err = s.repo.Countries(ctx)
	if err != nil {
		return nil, nil, err
	}
	languages, err = s.repo.Languages(ctx)
	if err != nil {
		return nil, nil, err
	}
	if countries == nil {
		countries = []string{}
	}
	if languages == nil {
		languages = []string{}
	}
	return countries, languages, nil
}
