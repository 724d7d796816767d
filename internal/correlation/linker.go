// Package correlation persists scored links between articles and the
// instruments they mention.
package correlation

import (
	"fmt"
	"log/slog"

	"newssense/internal/model"
)

type Resolver interface {
	Resolve(text string) ([]string, error)
}

type InstrumentStore interface {
	GetBySymbol(symbol string) (*model.Instrument, error)
}

type EdgeStore interface {
	Insert(edge *model.CorrelationEdge) (bool, error)
}

type Linker struct {
	resolver    Resolver
	instruments InstrumentStore
	edges       EdgeStore
	scorer      Scorer
}

func NewLinker(resolver Resolver, instruments InstrumentStore, edges EdgeStore, scorer Scorer) *Linker {
	return &Linker{
		resolver:    resolver,
		instruments: instruments,
		edges:       edges,
		scorer:      scorer,
	}
}

// Link resolves the article's content and creates one edge per matched
// instrument. Idempotent: an existing (instrument, article) pair is a
// silent no-op and the original edge is untouched.
func (l *Linker) Link(article *model.NewsArticle) error {
	symbols, err := l.resolver.Resolve(article.Content)
	if err != nil {
		return fmt.Errorf("resolving entities: %w", err)
	}

	for _, symbol := range symbols {
		instrument, err := l.instruments.GetBySymbol(symbol)
		if err != nil {
			slog.Error("error looking up instrument", "symbol", symbol, "article_id", article.ID, "error", err)
			continue
		}

		if instrument == nil {
			// Resolved symbol with no registry entry; skip, not an error.
			continue
		}

		score, impact := l.scorer.Score(instrument, article)

		inserted, err := l.edges.Insert(&model.CorrelationEdge{
			InstrumentID: instrument.ID,
			ArticleID:    article.ID,
			Score:        score,
			Impact:       impact,
		})
		if err != nil {
			slog.Error("error saving correlation", "symbol", symbol, "article_id", article.ID, "error", err)
			continue
		}

		if inserted {
			slog.Info("correlation created", "symbol", symbol, "article_id", article.ID, "score", score, "impact", impact)
		}
	}

	return nil
}
