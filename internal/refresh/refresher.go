// Package refresh keeps instrument data current against an external,
// rate-limited market-data provider.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newssense/internal/model"
	"newssense/pkg/marketdata"
)

// StaleAfter is the freshness threshold; instruments refreshed within
// it are left alone.
const StaleAfter = 24 * time.Hour

// Throttle paces calls to the external provider. *rate.Limiter
// satisfies it.
type Throttle interface {
	Wait(ctx context.Context) error
}

type InstrumentStore interface {
	ListStale(cutoff time.Time) ([]model.Instrument, error)
	Upsert(instrument *model.Instrument) error
}

type Result struct {
	Updated int
	Errors  []error
}

type Refresher struct {
	instruments InstrumentStore
	provider    marketdata.Provider
	throttle    Throttle
	now         func() time.Time
}

func NewRefresher(instruments InstrumentStore, provider marketdata.Provider, throttle Throttle) *Refresher {
	return &Refresher{
		instruments: instruments,
		provider:    provider,
		throttle:    throttle,
		now:         time.Now,
	}
}

// RefreshStale refreshes every instrument whose last update is unset or
// older than StaleAfter, one at a time in selection order. The loop is
// a rate-limiting device; it must stay serialized. A failed instrument
// is recorded and the queue continues; its lastUpdated is left
// unchanged so it stays eligible next cycle.
func (r *Refresher) RefreshStale(ctx context.Context) (Result, error) {
	cutoff := r.now().Add(-StaleAfter)

	stale, err := r.instruments.ListStale(cutoff)
	if err != nil {
		return Result{}, fmt.Errorf("selecting stale instruments: %w", err)
	}

	slog.Info("refreshing stale instruments", "count", len(stale))

	var result Result

	for i := range stale {
		// Pause between refreshes, not after the last one.
		if i > 0 {
			if err := r.throttle.Wait(ctx); err != nil {
				return result, fmt.Errorf("throttle wait: %w", err)
			}
		}

		instrument := &stale[i]
		if err := r.refreshOne(ctx, instrument); err != nil {
			slog.Error("error refreshing instrument", "symbol", instrument.Symbol, "error", err)
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", instrument.Symbol, err))
			continue
		}

		result.Updated++
		slog.Info("instrument refreshed", "symbol", instrument.Symbol)
	}

	return result, nil
}

func (r *Refresher) refreshOne(ctx context.Context, instrument *model.Instrument) error {
	prices, err := r.provider.FetchDailyPrices(ctx, instrument.Symbol)
	if err != nil {
		return err
	}

	overview, err := r.provider.FetchOverview(ctx, instrument.Symbol)
	if err != nil {
		// Prices alone are still worth persisting; keep the existing
		// type and holdings.
		slog.Warn("overview fetch failed, keeping existing metadata", "symbol", instrument.Symbol, "error", err)
		overview = nil
	}

	instrument.PriceHistory = derivePriceHistory(prices)

	if overview != nil {
		instrument.Type = classifyType(overview.AssetType)
		if overview.Name != "" && instrument.Name == "" {
			instrument.Name = overview.Name
		}

		instrument.Holdings = make([]model.Holding, 0, len(overview.Holdings))
		related := make([]string, 0, len(overview.Holdings))
		seen := make(map[string]struct{})

		for _, h := range overview.Holdings {
			instrument.Holdings = append(instrument.Holdings, model.Holding{
				CompanyName:   h.Name,
				Symbol:        h.Symbol,
				WeightPercent: h.WeightPercent,
			})

			if h.Name == "" {
				continue
			}
			if _, ok := seen[h.Name]; !ok {
				seen[h.Name] = struct{}{}
				related = append(related, h.Name)
			}
		}

		instrument.RelatedEntities = related
	}

	now := r.now()
	instrument.LastUpdated = &now

	if err := r.instruments.Upsert(instrument); err != nil {
		return fmt.Errorf("upserting instrument: %w", err)
	}

	return nil
}

// derivePriceHistory computes day-over-day change and percent from
// consecutive closes. Prices arrive oldest first; the first day has no
// previous close and carries zero change.
func derivePriceHistory(prices []marketdata.DailyPrice) []model.PricePoint {
	history := make([]model.PricePoint, 0, len(prices))

	for i, p := range prices {
		point := model.PricePoint{
			Date:   p.Date,
			Price:  p.Close,
			Volume: p.Volume,
		}

		if i > 0 && prices[i-1].Close != 0 {
			point.Change = p.Close - prices[i-1].Close
			point.ChangePercent = point.Change / prices[i-1].Close * 100
		}

		history = append(history, point)
	}

	return history
}

func classifyType(assetType string) model.InstrumentType {
	switch strings.ToUpper(strings.TrimSpace(assetType)) {
	case "ETF":
		return model.TypeETF
	case "MUTUAL FUND", "MUTUAL_FUND":
		return model.TypeMutualFund
	default:
		return model.TypeStock
	}
}
