package nlp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client: &client,
		model:  anthropic.Model("claude-haiku-4-5"),
	}
}

func (c *AnthropicClient) AnalyzeSentiment(text string) (*Sentiment, error) {
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

func (c *AnthropicClient) ExtractEntities(text string) ([]Entity, error) {
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

func (c *AnthropicClient) complete(systemPrompt, text string) (string, error) {
	resp, err := c.client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})

	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return cleanJSONResponse(resp.Content[0].Text), nil
}
