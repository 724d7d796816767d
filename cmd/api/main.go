package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"newssense/db"
	"newssense/internal/correlation"
	"newssense/internal/handler"
	"newssense/internal/ingest"
	"newssense/internal/refresh"
	"newssense/internal/repository"
	"newssense/internal/resolver"
	"newssense/pkg/cache"
	"newssense/pkg/marketdata"
	"newssense/pkg/news"
	"newssense/pkg/nlp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {

	godotenv.Load()

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

	instrumentHandler := handler.NewInstrumentHandler(instrumentRepo)
	newsHandler := handler.NewNewsHandler(articleRepo, instrumentRepo, correlationRepo)

	entityResolver := resolver.New(instrumentRepo)
	linker := correlation.NewLinker(entityResolver, instrumentRepo, correlationRepo, correlation.MentionScorer{})

	analyzer := buildAnalyzer()
	if analyzer == nil {
		slog.Error("no NLP API key configured")
		return
	}
	pipeline := ingest.NewPipeline(articleRepo, analyzer, linker)

	redisCache := cache.NewRedisCache(db.Redis)
	provider := marketdata.NewCachedProvider(
		marketdata.NewAlphaVantageClient(os.Getenv("ALPHA_VANTAGE_API_KEY")),
		redisCache,
	)
	// Alpha Vantage's free tier allows 5 requests a minute.
	throttle := rate.NewLimiter(rate.Every(15*time.Second), 1)
	refresher := refresh.NewRefresher(instrumentRepo, provider, throttle)

	opsHandler := handler.NewOpsHandler(entityResolver, pipeline, refresher, buildCollectors())

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/instruments", instrumentHandler.GetInstruments)
	r.GET("/instruments/:symbol", instrumentHandler.GetInstrument)
	r.GET("/instruments/:symbol/news", newsHandler.GetNewsByInstrument)
	r.GET("/news", newsHandler.GetNews)
	r.GET("/news/:id", newsHandler.GetArticle)
	r.GET("/resolve", opsHandler.Resolve)
	r.POST("/ingest/:source", opsHandler.TriggerIngest)
	r.POST("/refresh", opsHandler.TriggerRefresh)
	r.GET("/health", instrumentHandler.GetHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	err = r.Run(":" + port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
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
