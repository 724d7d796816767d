package model

import "time"

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

type Sentiment struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
}

// NeutralSentiment is the fallback stored when enrichment fails.
func NeutralSentiment() Sentiment {
	return Sentiment{Label: SentimentNeutral, Score: 0}
}

type Entity struct {
	Text      string  `json:"text"`
	Type      string  `json:"type"`
	Relevance float64 `json:"relevance"`
}

type NewsArticle struct {
	ID          int64
	Title       string
	Content     string
	Summary     string
	URL         string
	Source      string
	PublishedAt time.Time
	ScrapedAt   time.Time
	Sentiment   Sentiment
	Entities    []Entity
	Keywords    []string
}
