package marketdata

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"newssense/pkg/cache"
)

const (
	dailyPricesTTL = 10 * time.Minute
	overviewTTL    = 24 * time.Hour
)

// CachedProvider avoids redundant provider calls within a short window.
// Cache failures are logged and fall through to the inner provider.
type CachedProvider struct {
	inner Provider
	cache cache.Cache
}

func NewCachedProvider(inner Provider, c cache.Cache) *CachedProvider {
	return &CachedProvider{inner: inner, cache: c}
}

func (p *CachedProvider) FetchDailyPrices(ctx context.Context, symbol string) ([]DailyPrice, error) {
	key := "marketdata:daily:" + symbol

	var cached []DailyPrice
	err := p.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("cache read failed", "key", key, "error", err)
	}

	prices, err := p.inner.FetchDailyPrices(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, prices, dailyPricesTTL); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}

	return prices, nil
}

func (p *CachedProvider) FetchOverview(ctx context.Context, symbol string) (*Overview, error) {
	key := "marketdata:overview:" + symbol

	var cached Overview
	err := p.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("cache read failed", "key", key, "error", err)
	}

	overview, err := p.inner.FetchOverview(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, overview, overviewTTL); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}

	return overview, nil
}
