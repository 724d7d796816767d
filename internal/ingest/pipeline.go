// Package ingest pulls raw articles from source collectors, enriches
// them and persists them exactly once per URL.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"newssense/internal/model"
	"newssense/pkg/news"
	"newssense/pkg/nlp"
)

// ErrValidation marks a record missing a required field; it is dropped
// before any persistence attempt.
var ErrValidation = errors.New("article record missing required field")

const (
	defaultFetchLimit = 50

	// maxAnalyzeLen caps the text sent to the NLP capability.
	maxAnalyzeLen = 500
)

type ArticleStore interface {
	GetByURL(url string) (*model.NewsArticle, error)
	Save(article *model.NewsArticle) (bool, error)
}

type Linker interface {
	Link(article *model.NewsArticle) error
}

type Pipeline struct {
	articles   ArticleStore
	analyzer   nlp.Analyzer
	linker     Linker
	fetchLimit int
	now        func() time.Time
}

func NewPipeline(articles ArticleStore, analyzer nlp.Analyzer, linker Linker) *Pipeline {
	return &Pipeline{
		articles:   articles,
		analyzer:   analyzer,
		linker:     linker,
		fetchLimit: defaultFetchLimit,
		now:        time.Now,
	}
}

// Ingest pulls one source's articles and returns the count actually
// stored after deduplication. Per-article failures are logged and do
// not abort the batch.
func (p *Pipeline) Ingest(collector news.Collector) (int, error) {
	source := collector.Name()

	records, err := collector.Fetch(p.fetchLimit)
	if err != nil {
		return 0, fmt.Errorf("fetching articles from %s: %w", source, err)
	}

	var stored, duplicated, dropped int

	for _, record := range records {
		saved, err := p.ingestOne(record)
		if err != nil {
			slog.Error("error ingesting article", "source", source, "url", record.URL, "error", err)
			dropped++
			continue
		}

		if !saved {
			duplicated++
			continue
		}

		stored++
	}

	slog.Info("ingest complete", "source", source,
		"fetched", len(records), "stored", stored, "duplicated", duplicated, "dropped", dropped)

	return stored, nil
}

func (p *Pipeline) ingestOne(record news.RawArticle) (bool, error) {
	if record.Title == "" || record.URL == "" {
		return false, ErrValidation
	}

	// Dedup gate: re-ingestion of a known URL skips enrichment and
	// linking entirely.
	existing, err := p.articles.GetByURL(record.URL)
	if err != nil {
		return false, fmt.Errorf("checking for existing article: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	article := model.NewsArticle{
		Title:       record.Title,
		Content:     record.Content,
		Summary:     record.Summary,
		URL:         record.URL,
		Source:      record.Source,
		PublishedAt: record.PublishedAt,
		ScrapedAt:   p.now(),
	}

	p.enrich(&article)

	saved, err := p.articles.Save(&article)
	if err != nil {
		return false, fmt.Errorf("saving article: %w", err)
	}
	if !saved {
		// Lost a race on the URL constraint; same outcome as the gate.
		return false, nil
	}

	// Linking runs after persistence: a crash mid-link leaves a stored
	// article with zero edges, not a lost article.
	if err := p.linker.Link(&article); err != nil {
		slog.Error("error linking article", "source", article.Source, "article_id", article.ID, "error", err)
	}

	return true, nil
}

// enrich attaches sentiment, entities and keywords. Enrichment failure
// degrades to a neutral, empty enrichment instead of dropping the
// article.
func (p *Pipeline) enrich(article *model.NewsArticle) {
	text := truncate(article.Title+" "+article.Content, maxAnalyzeLen)

	sentiment, err := p.analyzer.AnalyzeSentiment(text)
	if err != nil {
		slog.Warn("sentiment analysis failed, storing neutral", "url", article.URL, "error", err)
		article.Sentiment = model.NeutralSentiment()
	} else {
		article.Sentiment = model.Sentiment{
			Label: model.SentimentLabel(sentiment.Label),
			Score: sentiment.Score,
		}
	}

	entities, err := p.analyzer.ExtractEntities(text)
	if err != nil {
		slog.Warn("entity extraction failed, storing empty list", "url", article.URL, "error", err)
		return
	}

	seen := make(map[string]struct{})
	for _, e := range entities {
		article.Entities = append(article.Entities, model.Entity{
			Text:      e.Text,
			Type:      e.Type,
			Relevance: e.Relevance,
		})

		if _, ok := seen[e.Text]; !ok {
			seen[e.Text] = struct{}{}
			article.Keywords = append(article.Keywords, e.Text)
		}
	}
}

// truncate cuts text to at most max bytes without splitting a rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	return text[:cut]
}
