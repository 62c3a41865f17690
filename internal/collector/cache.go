package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"StockLens/internal/cache"
	"StockLens/internal/model"
)

// CachingFetcher serves history and profiles from a cache and falls back to
// the wrapped fetcher. Only successful answers are stored; cache failures are
// logged and bypassed.
type CachingFetcher struct {
	Fetcher    Fetcher
	Cache      cache.Cache
	HistoryTTL time.Duration
	ProfileTTL time.Duration
}

// NewCachingFetcher wraps f with c.
func NewCachingFetcher(f Fetcher, c cache.Cache, historyTTL, profileTTL time.Duration) *CachingFetcher {
	return &CachingFetcher{Fetcher: f, Cache: c, HistoryTTL: historyTTL, ProfileTTL: profileTTL}
}

func (c *CachingFetcher) Name() string { return c.Fetcher.Name() }

func historyKey(provider, symbol string, start, end time.Time) string {
	return fmt.Sprintf("history:%s:%s:%s:%s", provider, NormalizeSymbol(symbol),
		start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func profileKey(provider, symbol string) string {
	return fmt.Sprintf("profile:%s:%s", provider, NormalizeSymbol(symbol))
}

func (c *CachingFetcher) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	key := historyKey(c.Name(), symbol, start, end)
	var cached model.PriceSeries
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}
	series, err := c.Fetcher.FetchHistory(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, series, c.HistoryTTL)
	return series, nil
}

func (c *CachingFetcher) FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error) {
	key := profileKey(c.Name(), symbol)
	var cached model.CompanyProfile
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}
	profile, err := c.Fetcher.FetchProfile(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, profile, c.ProfileTTL)
	return profile, nil
}

func (c *CachingFetcher) lookup(ctx context.Context, key string, dest any) bool {
	err := c.Cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Printf("[WARN] cache get %s: %v", key, err)
	}
	return false
}

func (c *CachingFetcher) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := c.Cache.Set(ctx, key, value, ttl); err != nil {
		log.Printf("[WARN] cache set %s: %v", key, err)
	}
}
