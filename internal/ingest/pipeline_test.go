package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"newssense/internal/correlation"
	"newssense/internal/model"
	"newssense/internal/resolver"
	"newssense/pkg/news"
	"newssense/pkg/nlp"
)

type fakeCollector struct {
	name     string
	articles []news.RawArticle
	err      error
}

func (f *fakeCollector) Fetch(limit int) ([]news.RawArticle, error) {
	return f.articles, f.err
}

func (f *fakeCollector) Name() string {
	return f.name
}

// fakeArticleStore enforces URL uniqueness like the persistence layer.
type fakeArticleStore struct {
	byURL  map[string]*model.NewsArticle
	nextID int64
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{byURL: make(map[string]*model.NewsArticle)}
}

func (f *fakeArticleStore) GetByURL(url string) (*model.NewsArticle, error) {
	return f.byURL[url], nil
}

func (f *fakeArticleStore) Save(article *model.NewsArticle) (bool, error) {
	if _, ok := f.byURL[article.URL]; ok {
		return false, nil
	}
	f.nextID++
	article.ID = f.nextID
	stored := *article
	f.byURL[article.URL] = &stored
	return true, nil
}

type fakeAnalyzer struct {
	sentiment    *nlp.Sentiment
	entities     []nlp.Entity
	sentimentErr error
	entitiesErr  error
}

func (f *fakeAnalyzer) AnalyzeSentiment(text string) (*nlp.Sentiment, error) {
	if f.sentimentErr != nil {
		return nil, f.sentimentErr
	}
	return f.sentiment, nil
}

func (f *fakeAnalyzer) ExtractEntities(text string) ([]nlp.Entity, error) {
	if f.entitiesErr != nil {
		return nil, f.entitiesErr
	}
	return f.entities, nil
}

type noopLinker struct {
	linked []int64
	err    error
}

func (l *noopLinker) Link(article *model.NewsArticle) error {
	l.linked = append(l.linked, article.ID)
	return l.err
}

func positiveAnalyzer() *fakeAnalyzer {
	return &fakeAnalyzer{
		sentiment: &nlp.Sentiment{Label: "POSITIVE", Score: 0.9},
		entities:  []nlp.Entity{{Text: "Apple", Type: "COMPANY", Relevance: 1}},
	}
}

func TestIngestStoresArticles(t *testing.T) {
	store := newFakeArticleStore()
	linker := &noopLinker{}
	pipeline := NewPipeline(store, positiveAnalyzer(), linker)

	collector := &fakeCollector{name: "TestWire", articles: []news.RawArticle{
		{Title: "Apple rallies", Content: "Apple stock rose.", URL: "https://example.com/a", Source: "TestWire", PublishedAt: time.Now()},
		{Title: "Oil slips", Content: "Crude fell.", URL: "https://example.com/b", Source: "TestWire", PublishedAt: time.Now()},
	}}

	count, err := pipeline.Ingest(collector)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, len(store.byURL))
	assert.Equal(t, 2, len(linker.linked))

	stored := store.byURL["https://example.com/a"]
	assert.Equal(t, model.SentimentPositive, stored.Sentiment.Label)
	assert.Equal(t, []string{"Apple"}, stored.Keywords)
}

func TestIngestDeduplicatesByURL(t *testing.T) {
	store := newFakeArticleStore()
	pipeline := NewPipeline(store, positiveAnalyzer(), &noopLinker{})

	collector := &fakeCollector{name: "TestWire", articles: []news.RawArticle{
		{Title: "First copy", Content: "Body.", URL: "https://example.com/dup"},
		{Title: "Second copy, different content", Content: "Other body.", URL: "https://example.com/dup"},
	}}

	count, err := pipeline.Ingest(collector)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, len(store.byURL))
	assert.Equal(t, "First copy", store.byURL["https://example.com/dup"].Title)
}

func TestIngestSkipsAlreadyStored(t *testing.T) {
	store := newFakeArticleStore()
	linker := &noopLinker{}
	pipeline := NewPipeline(store, positiveAnalyzer(), linker)

	collector := &fakeCollector{name: "TestWire", articles: []news.RawArticle{
		{Title: "Apple rallies", Content: "Body.", URL: "https://example.com/a"},
	}}

	count, err := pipeline.Ingest(collector)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, count)

	// Second run: same URL, no re-enrichment, no re-linking.
	count, err = pipeline.Ingest(collector)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 1, len(linker.linked))
}

func TestIngestDegradesOnEnrichmentFailure(t *testing.T) {
	store := newFakeArticleStore()
	analyzer := &fakeAnalyzer{
		sentimentErr: errors.New("nlp unavailable"),
		entitiesErr:  errors.New("nlp unavailable"),
	}
	pipeline := NewPipeline(store, analyzer, &noopLinker{})

	collector := &fakeCollector{name: "TestWire", articles: []news.RawArticle{
		{Title: "Apple rallies", Content: "Body.", URL: "https://example.com/a"},
	}}

	count, err := pipeline.Ingest(collector)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, count)

	stored := store.byURL["https://example.com/a"]
	assert.Equal(t, model.SentimentNeutral, stored.Sentiment.Label)
	assert.Equal(t, 0.0, stored.Sentiment.Score)
	assert.Equal(t, 0, len(stored.Entities))
}

func TestIngestDropsInvalidRecords(t *testing.T) {
	store := newFakeArticleStore()
	pipeline := NewPipeline(store, positiveAnalyzer(), &noopLinker{})

	collector := &fakeCollector{name: "TestWire", articles: []news.RawArticle{
		{Title: "", Content: "No title.", URL: "https://example.com/no-title"},
		{Title: "No URL", Content: "Body."},
		{Title: "Valid", Content: "Body.", URL: "https://example.com/valid"},
	}}

	count, err := pipeline.Ingest(collector)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, len(store.byURL))
}

func TestIngestLinkerFailureKeepsArticle(t *testing.T) {
	store := newFakeArticleStore()
	pipeline := NewPipeline(store, positiveAnalyzer(), &noopLinker{err: errors.New("resolver down")})

	collector := &fakeCollector{name: "TestWire", articles: []news.RawArticle{
		{Title: "Apple rallies", Content: "Body.", URL: "https://example.com/a"},
	}}

	count, err := pipeline.Ingest(collector)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, len(store.byURL))
}

func TestIngestCollectorError(t *testing.T) {
	pipeline := NewPipeline(newFakeArticleStore(), positiveAnalyzer(), &noopLinker{})

	_, err := pipeline.Ingest(&fakeCollector{name: "TestWire", err: errors.New("source unreachable")})
	assert.NotEqual(t, nil, err)
}

// End to end through a real resolver and linker: an article mentioning
// a known alias ends up stored with sentiment and exactly one edge.
func TestIngestLinksKnownInstrument(t *testing.T) {
	registry := &staticRegistry{instruments: []model.Instrument{
		{ID: 1, Symbol: "AAPL", Name: "Apple Inc", RelatedEntities: []string{"iphone"}},
	}}
	edges := &memoryEdgeStore{edges: make(map[[2]int64]model.CorrelationEdge)}

	linker := correlation.NewLinker(
		resolver.New(registry),
		registry,
		edges,
		correlation.MentionScorer{},
	)

	store := newFakeArticleStore()
	pipeline := NewPipeline(store, positiveAnalyzer(), linker)

	collector := &fakeCollector{name: "TestWire", articles: []news.RawArticle{
		{Title: "Strong iPhone quarter", Content: "Record iphone sales lifted results.", URL: "https://example.com/iphone"},
	}}

	count, err := pipeline.Ingest(collector)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, count)

	stored := store.byURL["https://example.com/iphone"]
	assert.NotEqual(t, "", string(stored.Sentiment.Label))

	assert.Equal(t, 1, len(edges.edges))
	edge := edges.edges[[2]int64{1, stored.ID}]
	assert.Equal(t, int64(1), edge.InstrumentID)
}

type staticRegistry struct {
	instruments []model.Instrument
}

func (r *staticRegistry) ListIdentifiers() ([]model.Instrument, error) {
	return r.instruments, nil
}

func (r *staticRegistry) GetBySymbol(symbol string) (*model.Instrument, error) {
	for i := range r.instruments {
		if r.instruments[i].Symbol == symbol {
			return &r.instruments[i], nil
		}
	}
	return nil, nil
}

type memoryEdgeStore struct {
	edges map[[2]int64]model.CorrelationEdge
}

func (s *memoryEdgeStore) Insert(edge *model.CorrelationEdge) (bool, error) {
	key := [2]int64{edge.InstrumentID, edge.ArticleID}
	if _, ok := s.edges[key]; ok {
		return false, nil
	}
	s.edges[key] = *edge
	return true, nil
}

func TestTruncateDoesNotSplitRunes(t *testing.T) {
	// "é" is two bytes; a cap landing inside it must back off.
	assert.Equal(t, "h", truncate("héllo", 2))
	assert.Equal(t, "hé", truncate("héllo", 3))
	assert.Equal(t, "héllo", truncate("héllo", 10))
	assert.Equal(t, "", truncate("é", 1))
}
