package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

type AlphaVantageClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		baseURL:    alphaVantageBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *AlphaVantageClient) FetchDailyPrices(ctx context.Context, symbol string) ([]DailyPrice, error) {
	url := fmt.Sprintf(
		"%s?function=TIME_SERIES_DAILY&symbol=%s&apikey=%s",
		c.baseURL, symbol, c.apiKey,
	)

	var raw avDailyResponse
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	if raw.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage daily %s: %s: %w", symbol, raw.ErrorMessage, ErrFetch)
	}
	if raw.Note != "" {
		return nil, fmt.Errorf("alphavantage daily %s: quota exceeded: %w", symbol, ErrFetch)
	}
	if len(raw.TimeSeries) == 0 {
		return nil, fmt.Errorf("alphavantage daily %s: empty time series: %w", symbol, ErrFetch)
	}

	prices := make([]DailyPrice, 0, len(raw.TimeSeries))
	for dateStr, day := range raw.TimeSeries {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		closePrice, err := strconv.ParseFloat(day.Close, 64)
		if err != nil {
			continue
		}

		volume, _ := strconv.ParseInt(day.Volume, 10, 64)

		prices = append(prices, DailyPrice{
			Date:   date,
			Close:  closePrice,
			Volume: volume,
		})
	}

	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})

	return prices, nil
}

func (c *AlphaVantageClient) FetchOverview(ctx context.Context, symbol string) (*Overview, error) {
	url := fmt.Sprintf(
		"%s?function=OVERVIEW&symbol=%s&apikey=%s",
		c.baseURL, symbol, c.apiKey,
	)

	var raw avOverviewResponse
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	if raw.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage overview %s: %s: %w", symbol, raw.ErrorMessage, ErrFetch)
	}

	holdings := make([]Holding, 0, len(raw.Holdings))
	for _, h := range raw.Holdings {
		weight, _ := strconv.ParseFloat(h.Percentage, 64)
		holdings = append(holdings, Holding{
			Name:          h.Name,
			Symbol:        h.Symbol,
			WeightPercent: weight,
		})
	}

	return &Overview{
		Name:      raw.Name,
		AssetType: raw.AssetType,
		Holdings:  holdings,
	}, nil
}

func (c *AlphaVantageClient) getJSON(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("alphavantage request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("alphavantage fetch: %v: %w", err, ErrFetch)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alphavantage fetch: status %d: %w", resp.StatusCode, ErrFetch)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("alphavantage decode: %v: %w", err, ErrFetch)
	}

	return nil
}

type avDailyResponse struct {
	ErrorMessage string               `json:"Error Message"`
	Note         string               `json:"Note"`
	TimeSeries   map[string]avDayData `json:"Time Series (Daily)"`
}

type avDayData struct {
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type avOverviewResponse struct {
	ErrorMessage string      `json:"Error Message"`
	Name         string      `json:"Name"`
	AssetType    string      `json:"AssetType"`
	Holdings     []avHolding `json:"holdings"`
}

type avHolding struct {
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Percentage string `json:"percentage"`
}
