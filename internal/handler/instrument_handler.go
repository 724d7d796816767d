package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"newssense/internal/model"
)

type InstrumentStore interface {
	List(limit, offset int) ([]model.Instrument, error)
	Total() (int, error)
	GetBySymbol(symbol string) (*model.Instrument, error)
}

type InstrumentHandler struct {
	repository InstrumentStore
}

func NewInstrumentHandler(repository InstrumentStore) *InstrumentHandler {
	return &InstrumentHandler{repository: repository}
}

func (h *InstrumentHandler) GetInstruments(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	instruments, err := h.repository.List(limit, offset)
	if err != nil {
		slog.Error("error fetching instruments", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.Total()
	if err != nil {
		slog.Error("error fetching instrument total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := InstrumentListResponse{
		Instruments: make([]InstrumentResponse, 0, len(instruments)),
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	}
	for i := range instruments {
		res.Instruments = append(res.Instruments, toInstrumentResponse(&instruments[i]))
	}

	c.JSON(http.StatusOK, res)
}

func (h *InstrumentHandler) GetInstrument(c *gin.Context) {
	symbol := c.Param("symbol")

	instrument, err := h.repository.GetBySymbol(symbol)
	if err != nil {
		slog.Error("error fetching instrument", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if instrument == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instrument not found"})
		return
	}

	c.JSON(http.StatusOK, toInstrumentResponse(instrument))
}

func (h *InstrumentHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getQueryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}
