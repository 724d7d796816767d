package news

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnhubCollector struct {
	client     *finnhub.DefaultApiService
	httpClient *http.Client
}

func NewFinnhubCollector(apiKey string) *FinnhubCollector {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	httpClient := newTimeoutClient()
	cfg.HTTPClient = httpClient
	return &FinnhubCollector{
		client:     finnhub.NewAPIClient(cfg).DefaultApi,
		httpClient: httpClient,
	}
}

func (c *FinnhubCollector) Name() string {
	return "Finnhub"
}

func (c *FinnhubCollector) Fetch(limit int) ([]RawArticle, error) {
	res, _, err := c.client.MarketNews(context.Background()).Category("general").Execute()
	if err != nil {
		return nil, err
	}

	var articles []RawArticle

	for _, item := range res {
		if len(articles) >= limit {
			break
		}

		a := RawArticle{Source: c.Name()}

		if item.Headline != nil {
			a.Title = *item.Headline
		}

		if item.Summary != nil {
			a.Content = *item.Summary
			a.Summary = *item.Summary
		}

		if item.Url != nil {
			a.URL = *item.Url
		}

		if item.Datetime != nil {
			a.PublishedAt = time.Unix(*item.Datetime, 0)
		}

		if item.Source != nil {
			a.Publisher = *item.Source
		}

		if a.Title == "" || a.URL == "" {
			slog.Warn("skipping malformed article record", "source", c.Name(), "error", ErrParse)
			continue
		}

		articles = append(articles, a)
	}

	return articles, nil
}
