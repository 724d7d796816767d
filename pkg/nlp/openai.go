package nlp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const sentimentSystemPrompt = `You are a financial sentiment classifier. Classify the sentiment of the given financial news text.

Output as JSON only, no other text:
{
  "label": "POSITIVE, NEGATIVE or NEUTRAL",
  "score": 0.0-1.0 confidence in the label
}`

const entitySystemPrompt = `You are a financial named-entity extractor. Extract companies, tickers, sectors, indexes and countries mentioned in the given financial news text.

Output as JSON only, no other text:
{
  "entities": [
    {"text": "entity as it appears", "type": "COMPANY|TICKER|SECTOR|INDEX|COUNTRY", "relevance": 0.0-1.0}
  ]
}`

type OpenAIClient struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
	}
}

func (c *OpenAIClient) AnalyzeSentiment(text string) (*Sentiment, error) {
	content, err := c.complete(sentimentSystemPrompt, text)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	return &Sentiment{Label: normalizeLabel(parsed.Label), Score: parsed.Score}, nil
}

func (c *OpenAIClient) ExtractEntities(text string) ([]Entity, error) {
	content, err := c.complete(entitySystemPrompt, text)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Entities []struct {
			Text      string  `json:"text"`
			Type      string  `json:"type"`
			Relevance float64 `json:"relevance"`
		} `json:"entities"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	entities := make([]Entity, 0, len(parsed.Entities))
	for _, e := range parsed.Entities {
		entities = append(entities, Entity{Text: e.Text, Type: e.Type, Relevance: e.Relevance})
	}

	return entities, nil
}

func (c *OpenAIClient) complete(systemPrompt, text string) (string, error) {
	resp, err := c.client.Chat.Completions.New(context.Background(), openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
	})

	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return cleanJSONResponse(resp.Choices[0].Message.Content), nil
}
