package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"newssense/internal/refresh"
	"newssense/pkg/news"
)

type Resolver interface {
	Resolve(text string) ([]string, error)
}

type Ingester interface {
	Ingest(collector news.Collector) (int, error)
}

type Refresher interface {
	RefreshStale(ctx context.Context) (refresh.Result, error)
}

// OpsHandler exposes manual triggers for the two pipelines plus the
// resolve endpoint.
type OpsHandler struct {
	resolver   Resolver
	pipeline   Ingester
	refresher  Refresher
	collectors map[string]news.Collector
}

func NewOpsHandler(resolver Resolver, pipeline Ingester, refresher Refresher, collectors []news.Collector) *OpsHandler {
	byName := make(map[string]news.Collector, len(collectors))
	for _, c := range collectors {
		byName[c.Name()] = c
	}

	return &OpsHandler{
		resolver:   resolver,
		pipeline:   pipeline,
		refresher:  refresher,
		collectors: byName,
	}
}

func (h *OpsHandler) Resolve(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter q"})
		return
	}

	symbols, err := h.resolver.Resolve(query)
	if err != nil {
		slog.Error("error resolving entities", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Resolution error"})
		return
	}

	if symbols == nil {
		symbols = []string{}
	}

	c.JSON(http.StatusOK, ResolveResponse{Query: query, Symbols: symbols})
}

func (h *OpsHandler) TriggerIngest(c *gin.Context) {
	source := c.Param("source")

	collector, ok := h.collectors[source]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown source"})
		return
	}

	stored, err := h.pipeline.Ingest(collector)
	if err != nil {
		slog.Error("error running ingest", "source", source, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingest failed"})
		return
	}

	c.JSON(http.StatusOK, IngestResponse{Source: source, Stored: stored})
}

func (h *OpsHandler) TriggerRefresh(c *gin.Context) {
	result, err := h.refresher.RefreshStale(c.Request.Context())
	if err != nil {
		slog.Error("error running refresh", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Refresh failed"})
		return
	}

	errs := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, e.Error())
	}

	c.JSON(http.StatusOK, RefreshResponse{Updated: result.Updated, Errors: errs})
}
