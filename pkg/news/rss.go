package news

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

func newTimeoutClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

type RSSCollector struct {
	name    string
	feedURL string
	parser  *gofeed.Parser
}

func NewRSSCollector(name, feedURL string) *RSSCollector {
	parser := gofeed.NewParser()
	parser.Client = newTimeoutClient()
	return &RSSCollector{
		name:    name,
		feedURL: feedURL,
		parser:  parser,
	}
}

func (c *RSSCollector) Name() string {
	return c.name
}

// CollectorsFromEnv parses a comma-separated list of name=url pairs,
// e.g. "reuters=https://feeds.reuters.com/...,ft=https://ft.com/rss".
// Malformed pairs are logged and skipped.
func CollectorsFromEnv(feeds string) []Collector {
	var collectors []Collector

	for _, pair := range strings.Split(feeds, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		name, url, ok := strings.Cut(pair, "=")
		if !ok || name == "" || url == "" {
			slog.Warn("skipping malformed RSS feed entry", "entry", pair)
			continue
		}

		collectors = append(collectors, NewRSSCollector(name, url))
	}

	return collectors
}

func (c *RSSCollector) Fetch(limit int) ([]RawArticle, error) {
	feed, err := c.parser.ParseURL(c.feedURL)
	if err != nil {
		return nil, fmt.Errorf("rss fetch %s: %w", c.name, err)
	}

	var articles []RawArticle

	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}

		if item.Title == "" || item.Link == "" {
			slog.Warn("skipping malformed article record", "source", c.name, "error", ErrParse)
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		publishedAt := time.Time{}
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		}

		publisher := c.name
		if feed.Title != "" {
			publisher = feed.Title
		}

		articles = append(articles, RawArticle{
			Title:       item.Title,
			Content:     content,
			Summary:     item.Description,
			URL:         item.Link,
			Publisher:   publisher,
			PublishedAt: publishedAt,
			Source:      c.name,
		})
	}

	return articles, nil
}
