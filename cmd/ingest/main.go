package main

import (
	"log"
	"log/slog"
	"os"

	"newssense/db"
	"newssense/internal/correlation"
	"newssense/internal/ingest"
	"newssense/internal/repository"
	"newssense/internal/resolver"
	"newssense/pkg/news"
	"newssense/pkg/nlp"

	"github.com/joho/godotenv"
)

// One-shot ingest run over every configured source, for cron setups
// and manual backfills.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	collectors := buildCollectors()
	if len(collectors) == 0 {
		slog.Error("no news source configured")
		return
	}

	analyzer := buildAnalyzer()
	if analyzer == nil {
		slog.Error("no NLP API key configured")
		return
	}

	instrumentRepo := repository.NewInstrumentRepository(db.DB)
	articleRepo := repository.NewArticleRepository(db.DB)
	correlationRepo := repository.NewCorrelationRepository(db.DB)

	entityResolver := resolver.New(instrumentRepo)
	linker := correlation.NewLinker(entityResolver, instrumentRepo, correlationRepo, correlation.MentionScorer{})
	pipeline := ingest.NewPipeline(articleRepo, analyzer, linker)

	for _, collector := range collectors {
		if _, err := pipeline.Ingest(collector); err != nil {
			slog.Error("error ingesting news", "source", collector.Name(), "error", err)
		}
	}
}

func buildAnalyzer() nlp.Analyzer {
	if key := os.Getenv("HUGGINGFACE_API_KEY"); key != "" {
		return nlp.NewHuggingFaceClient(key)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return nlp.NewOpenAIClient(key)
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return nlp.NewAnthropicClient(key)
	}
	return nil
}

func buildCollectors() []news.Collector {
	var collectors []news.Collector
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		collectors = append(collectors, news.NewFinnhubCollector(key))
	}
	if key := os.Getenv("ALPHA_VANTAGE_API_KEY"); key != "" {
		collectors = append(collectors, news.NewAlphaVantageCollector(key))
	}
	collectors = append(collectors, news.CollectorsFromEnv(os.Getenv("RSS_FEEDS"))...)
	return collectors
}
