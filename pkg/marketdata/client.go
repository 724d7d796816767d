package marketdata

import (
	"context"
	"errors"
	"time"
)

// ErrFetch covers provider-unreachable, quota-exceeded and
// invalid-symbol conditions. Callers skip the item and leave state
// untouched.
var ErrFetch = errors.New("market data fetch failed")

type DailyPrice struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

type Holding struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	WeightPercent float64 `json:"weight_percent"`
}

type Overview struct {
	Name      string    `json:"name"`
	AssetType string    `json:"asset_type"`
	Holdings  []Holding `json:"holdings"`
}

type Provider interface {
	// FetchDailyPrices returns the daily close series for a symbol,
	// ordered oldest first.
	FetchDailyPrices(ctx context.Context, symbol string) ([]DailyPrice, error)
	FetchOverview(ctx context.Context, symbol string) (*Overview, error)
}
