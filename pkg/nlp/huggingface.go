package nlp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	huggingFaceBaseURL = "https://api-inference.huggingface.co/models"
	sentimentModel     = "distilbert-base-uncased-finetuned-sst-2-english"
	entityModel        = "dslim/bert-base-NER"
)

type HuggingFaceClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewHuggingFaceClient(apiKey string) *HuggingFaceClient {
	return &HuggingFaceClient{
		apiKey:     apiKey,
		baseURL:    huggingFaceBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HuggingFaceClient) AnalyzeSentiment(text string) (*Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		return &Sentiment{Label: "NEUTRAL", Score: 0}, nil
	}

	var result [][]hfClassification
	if err := c.post(sentimentModel, text, &result); err != nil {
		return nil, err
	}

	if len(result) == 0 || len(result[0]) == 0 {
		return nil, fmt.Errorf("huggingface sentiment: empty response")
	}

	top := result[0][0]
	return &Sentiment{
		Label: normalizeLabel(top.Label),
		Score: top.Score,
	}, nil
}

func (c *HuggingFaceClient) ExtractEntities(text string) ([]Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var result []hfEntity
	if err := c.post(entityModel, text, &result); err != nil {
		return nil, err
	}

	entities := make([]Entity, 0, len(result))
	for _, e := range result {
		if e.Word == "" {
			continue
		}
		entities = append(entities, Entity{
			Text:      e.Word,
			Type:      e.EntityGroup,
			Relevance: e.Score,
		})
	}

	return entities, nil
}

func (c *HuggingFaceClient) post(model, text string, dest any) error {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/"+model, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("huggingface request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("huggingface call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("huggingface call: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("huggingface decode: %w", err)
	}

	return nil
}

type hfClassification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type hfEntity struct {
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
}
