package handler

import (
	"time"

	"newssense/internal/model"
)

type PricePointResponse struct {
	Date          string  `json:"date"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
}

type HoldingResponse struct {
	CompanyName   string  `json:"company_name"`
	Symbol        string  `json:"symbol"`
	WeightPercent float64 `json:"weight_percent"`
}

type InstrumentResponse struct {
	ID              int64                `json:"id"`
	Symbol          string               `json:"symbol"`
	ISIN            string               `json:"isin,omitempty"`
	Name            string               `json:"name"`
	Type            string               `json:"type"`
	PriceHistory    []PricePointResponse `json:"price_history"`
	Holdings        []HoldingResponse    `json:"holdings"`
	RelatedEntities []string             `json:"related_entities"`
	LastUpdated     string               `json:"last_updated,omitempty"`
}

type InstrumentListResponse struct {
	Instruments []InstrumentResponse `json:"instruments"`
	Total       int                  `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

type SentimentResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type EntityResponse struct {
	Text      string  `json:"text"`
	Type      string  `json:"type"`
	Relevance float64 `json:"relevance"`
}

type CorrelationResponse struct {
	InstrumentID int64   `json:"instrument_id"`
	Score        float64 `json:"score"`
	Impact       string  `json:"impact"`
}

type ArticleResponse struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Summary      string                `json:"summary"`
	URL          string                `json:"url"`
	Source       string                `json:"source"`
	PublishedAt  string                `json:"published_at"`
	Sentiment    SentimentResponse     `json:"sentiment"`
	Entities     []EntityResponse      `json:"entities"`
	Keywords     []string              `json:"keywords"`
	Correlations []CorrelationResponse `json:"correlations,omitempty"`
}

type ArticleListResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type ResolveResponse struct {
	Query   string   `json:"query"`
	Symbols []string `json:"symbols"`
}

type IngestResponse struct {
	Source string `json:"source"`
	Stored int    `json:"stored"`
}

type RefreshResponse struct {
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

func toInstrumentResponse(i *model.Instrument) InstrumentResponse {
	history := make([]PricePointResponse, 0, len(i.PriceHistory))
	for _, p := range i.PriceHistory {
		history = append(history, PricePointResponse{
			Date:          p.Date.Format("2006-01-02"),
			Price:         p.Price,
			Change:        p.Change,
			ChangePercent: p.ChangePercent,
			Volume:        p.Volume,
		})
	}

	holdings := make([]HoldingResponse, 0, len(i.Holdings))
	for _, h := range i.Holdings {
		holdings = append(holdings, HoldingResponse{
			CompanyName:   h.CompanyName,
			Symbol:        h.Symbol,
			WeightPercent: h.WeightPercent,
		})
	}

	lastUpdated := ""
	if i.LastUpdated != nil {
		lastUpdated = i.LastUpdated.Format(time.RFC3339)
	}

	return InstrumentResponse{
		ID:              i.ID,
		Symbol:          i.Symbol,
		ISIN:            i.ISIN,
		Name:            i.Name,
		Type:            string(i.Type),
		PriceHistory:    history,
		Holdings:        holdings,
		RelatedEntities: i.RelatedEntities,
		LastUpdated:     lastUpdated,
	}
}

func toArticleResponse(a *model.NewsArticle) ArticleResponse {
	entities := make([]EntityResponse, 0, len(a.Entities))
	for _, e := range a.Entities {
		entities = append(entities, EntityResponse{
			Text:      e.Text,
			Type:      e.Type,
			Relevance: e.Relevance,
		})
	}

	return ArticleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Summary:     a.Summary,
		URL:         a.URL,
		Source:      a.Source,
		PublishedAt: a.PublishedAt.Format(time.RFC3339),
		Sentiment: SentimentResponse{
			Label: string(a.Sentiment.Label),
			Score: a.Sentiment.Score,
		},
		Entities: entities,
		Keywords: a.Keywords,
	}
}
