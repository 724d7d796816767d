package nlp

import "strings"

type Sentiment struct {
	Label string
	Score float64
}

type Entity struct {
	Text      string
	Type      string
	Relevance float64
}

// Analyzer is the external NLP capability. Callers may cap text length
// before invocation; implementations tolerate truncated input.
type Analyzer interface {
	AnalyzeSentiment(text string) (*Sentiment, error)
	ExtractEntities(text string) ([]Entity, error)
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func normalizeLabel(label string) string {
	switch strings.ToUpper(label) {
	case "POSITIVE":
		return "POSITIVE"
	case "NEGATIVE":
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}
