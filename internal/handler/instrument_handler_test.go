package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"newssense/internal/model"
)

type fakeInstrumentStore struct {
	instruments []model.Instrument
	total       int
	instrument  *model.Instrument
	err         error
}

func (f *fakeInstrumentStore) List(limit, offset int) ([]model.Instrument, error) {
	return f.instruments, f.err
}

func (f *fakeInstrumentStore) Total() (int, error) {
	return f.total, f.err
}

func (f *fakeInstrumentStore) GetBySymbol(symbol string) (*model.Instrument, error) {
	return f.instrument, f.err
}

func newInstrumentRouter(store InstrumentStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewInstrumentHandler(store)
	r.GET("/instruments", h.GetInstruments)
	r.GET("/instruments/:symbol", h.GetInstrument)
	r.GET("/health", h.GetHealth)
	return r
}

func TestGetInstruments_ReturnsList(t *testing.T) {
	updated := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	store := &fakeInstrumentStore{
		instruments: []model.Instrument{
			{
				ID:          1,
				Symbol:      "AAPL",
				Name:        "Apple Inc",
				Type:        model.TypeStock,
				LastUpdated: &updated,
			},
		},
		total: 1,
	}

	r := newInstrumentRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/instruments?limit=10&offset=0", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res InstrumentListResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, len(res.Instruments))
	assert.Equal(t, "AAPL", res.Instruments[0].Symbol)
	assert.Equal(t, "STOCK", res.Instruments[0].Type)
	assert.Equal(t, "2026-08-29T12:00:00Z", res.Instruments[0].LastUpdated)
}

func TestGetInstruments_DefaultLimit(t *testing.T) {
	store := &fakeInstrumentStore{instruments: []model.Instrument{}}
	r := newInstrumentRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/instruments", nil)
	r.ServeHTTP(w, req)

	var res InstrumentListResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 20, res.Limit)
	assert.Equal(t, 0, res.Offset)
}

func TestGetInstruments_LimitCapped(t *testing.T) {
	store := &fakeInstrumentStore{instruments: []model.Instrument{}}
	r := newInstrumentRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/instruments?limit=500", nil)
	r.ServeHTTP(w, req)

	var res InstrumentListResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 20, res.Limit)
}

func TestGetInstruments_DBError(t *testing.T) {
	store := &fakeInstrumentStore{err: errors.New("DB down")}
	r := newInstrumentRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/instruments", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetInstrument_Found(t *testing.T) {
	store := &fakeInstrumentStore{
		instrument: &model.Instrument{
			ID:     2,
			Symbol: "QQQ",
			Name:   "Invesco QQQ Trust",
			Type:   model.TypeETF,
			Holdings: []model.Holding{
				{CompanyName: "Apple Inc", Symbol: "AAPL", WeightPercent: 8.9},
			},
			RelatedEntities: []string{"Apple Inc"},
		},
	}

	r := newInstrumentRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/instruments/QQQ", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res InstrumentResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "QQQ", res.Symbol)
	assert.Equal(t, "ETF", res.Type)
	assert.Equal(t, 1, len(res.Holdings))
	assert.Equal(t, "AAPL", res.Holdings[0].Symbol)
	assert.Equal(t, []string{"Apple Inc"}, res.RelatedEntities)
}

func TestGetInstrument_NotFound(t *testing.T) {
	store := &fakeInstrumentStore{}
	r := newInstrumentRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/instruments/ZZZZ", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHealth(t *testing.T) {
	store := &fakeInstrumentStore{}
	r := newInstrumentRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "ok", res["status"])
}
