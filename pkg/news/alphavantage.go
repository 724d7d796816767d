package news

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type AlphaVantageCollector struct {
	apiKey     string
	httpClient *http.Client
}

func NewAlphaVantageCollector(apiKey string) *AlphaVantageCollector {
	return &AlphaVantageCollector{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *AlphaVantageCollector) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageCollector) Fetch(limit int) ([]RawArticle, error) {
	url := fmt.Sprintf(
		"https://www.alphavantage.co/query?function=NEWS_SENTIMENT&limit=%d&sort=LATEST&apikey=%s",
		limit, c.apiKey,
	)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw avNewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	articles := make([]RawArticle, 0, len(raw.Feed))
	for _, item := range raw.Feed {
		if item.Title == "" || item.URL == "" {
			slog.Warn("skipping malformed article record", "source", c.Name(), "error", ErrParse)
			continue
		}

		publishedAt, err := time.Parse("20060102T150405", item.TimePublished)
		if err != nil {
			publishedAt = time.Time{}
		}

		articles = append(articles, RawArticle{
			Title:       item.Title,
			Content:     item.Summary,
			Summary:     item.Summary,
			URL:         item.URL,
			Publisher:   item.Source,
			PublishedAt: publishedAt,
			Source:      c.Name(),
		})
	}

	return articles, nil
}

type avNewsResponse struct {
	Feed []avNewsItem `json:"feed"`
}

type avNewsItem struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	URL           string `json:"url"`
	Source        string `json:"source"`
	TimePublished string `json:"time_published"`
}
