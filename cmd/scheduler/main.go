package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newssense/db"
	"newssense/internal/correlation"
	"newssense/internal/ingest"
	"newssense/internal/refresh"
	"newssense/internal/repository"
	"newssense/internal/resolver"
	"newssense/internal/scheduler"
	"newssense/pkg/cache"
	"newssense/pkg/marketdata"
	"newssense/pkg/news"
	"newssense/pkg/nlp"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	instrumentRepo := repository.NewInstrumentRepository(db.DB)
	articleRepo := repository.NewArticleRepository(db.DB)
	correlationRepo := repository.NewCorrelationRepository(db.DB)

	analyzer := buildAnalyzer()
	if analyzer == nil {
		slog.Error("no NLP API key configured")
		return
	}

	collectors := buildCollectors()
	if len(collectors) == 0 {
		slog.Error("no news source configured")
		return
	}

	entityResolver := resolver.New(instrumentRepo)
	linker := correlation.NewLinker(entityResolver, instrumentRepo, correlationRepo, correlation.MentionScorer{})
	pipeline := ingest.NewPipeline(articleRepo, analyzer, linker)

	provider := marketdata.NewCachedProvider(
		marketdata.NewAlphaVantageClient(os.Getenv("ALPHA_VANTAGE_API_KEY")),
		cache.NewRedisCache(db.Redis),
	)
	// Alpha Vantage's free tier allows 5 requests a minute.
	throttle := rate.NewLimiter(rate.Every(15*time.Second), 1)
	refresher := refresh.NewRefresher(instrumentRepo, provider, throttle)

	s := scheduler.New()

	s.Add("news-ingest", time.Hour, func(ctx context.Context) {
		for _, collector := range collectors {
			if ctx.Err() != nil {
				return
			}
			if _, err := pipeline.Ingest(collector); err != nil {
				slog.Error("error ingesting news", "source", collector.Name(), "error", err)
			}
		}
	})

	s.Add("instrument-refresh", 24*time.Hour, func(ctx context.Context) {
		result, err := refresher.RefreshStale(ctx)
		if err != nil {
			slog.Error("error refreshing instruments", "error", err)
			return
		}
		slog.Info("refresh complete", "updated", result.Updated, "failed", len(result.Errors))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.Start(ctx)
	slog.Info("scheduler started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Stop(shutdownCtx); err != nil {
		slog.Error("error stopping scheduler", "error", err)
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
