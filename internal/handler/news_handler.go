package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"newssense/internal/model"
)

type ArticleStore interface {
	List(limit, offset int) ([]model.NewsArticle, error)
	Total() (int, error)
	GetByID(id int64) (*model.NewsArticle, error)
	ListByKeyword(keyword string, limit, offset int) ([]model.NewsArticle, error)
	ListByInstrument(instrumentID int64, limit, offset int) ([]model.NewsArticle, error)
}

type EdgeStore interface {
	ListByArticle(articleID int64) ([]model.CorrelationEdge, error)
}

type NewsHandler struct {
	articles    ArticleStore
	instruments InstrumentStore
	edges       EdgeStore
}

func NewNewsHandler(articles ArticleStore, instruments InstrumentStore, edges EdgeStore) *NewsHandler {
	return &NewsHandler{articles: articles, instruments: instruments, edges: edges}
}

func (h *NewsHandler) GetNews(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	var articles []model.NewsArticle
	var err error

	if keyword := c.Query("keyword"); keyword != "" {
		articles, err = h.articles.ListByKeyword(keyword, limit, offset)
	} else {
		articles, err = h.articles.List(limit, offset)
	}

	if err != nil {
		slog.Error("error fetching news", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.articles.Total()
	if err != nil {
		slog.Error("error fetching news total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toArticleListResponse(articles, total, limit, offset))
}

func (h *NewsHandler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	article, err := h.articles.GetByID(id)
	if err != nil {
		slog.Error("error fetching article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	res := toArticleResponse(article)

	edges, err := h.edges.ListByArticle(article.ID)
	if err != nil {
		slog.Error("error fetching correlations", "article_id", article.ID, "error", err)
	}
	for _, e := range edges {
		res.Correlations = append(res.Correlations, CorrelationResponse{
			InstrumentID: e.InstrumentID,
			Score:        e.Score,
			Impact:       string(e.Impact),
		})
	}

	c.JSON(http.StatusOK, res)
}

// GetNewsByInstrument returns articles linked to an instrument through
// correlation edges.
func (h *NewsHandler) GetNewsByInstrument(c *gin.Context) {
	symbol := c.Param("symbol")
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	instrument, err := h.instruments.GetBySymbol(symbol)
	if err != nil {
		slog.Error("error fetching instrument", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if instrument == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instrument not found"})
		return
	}

	articles, err := h.articles.ListByInstrument(instrument.ID, limit, offset)
	if err != nil {
		slog.Error("error fetching instrument news", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toArticleListResponse(articles, len(articles), limit, offset))
}

func toArticleListResponse(articles []model.NewsArticle, total, limit, offset int) ArticleListResponse {
	res := ArticleListResponse{
		Articles: make([]ArticleResponse, 0, len(articles)),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
	for i := range articles {
		res.Articles = append(res.Articles, toArticleResponse(&articles[i]))
	}
	return res
}
