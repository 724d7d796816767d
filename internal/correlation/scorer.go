package correlation

import (
	"strings"

	"newssense/internal/model"
)

// Scorer computes the score and impact classification for a new edge.
// The scoring policy is pluggable; implementations must be
// deterministic so that repeated link attempts observe the same edge.
type Scorer interface {
	Score(instrument *model.Instrument, article *model.NewsArticle) (float64, model.ImpactType)
}

// MentionScorer is the initial placeholder policy: the score saturates
// with the number of times the instrument's terms appear in the article
// content, and impact is DIRECT when the symbol itself is mentioned.
type MentionScorer struct{}

func (MentionScorer) Score(instrument *model.Instrument, article *model.NewsArticle) (float64, model.ImpactType) {
	tokens := strings.Fields(strings.ToLower(article.Title + " " + article.Content))

	terms := make(map[string]struct{})
	symbol := strings.ToLower(instrument.Symbol)
	terms[symbol] = struct{}{}
	for _, t := range strings.Fields(strings.ToLower(instrument.Name)) {
		terms[t] = struct{}{}
	}
	for _, alias := range instrument.RelatedEntities {
		if alias != "" {
			terms[strings.ToLower(alias)] = struct{}{}
		}
	}

	mentions := 0
	symbolMentioned := false
	for _, token := range tokens {
		if _, ok := terms[token]; ok {
			mentions++
		}
		if token == symbol {
			symbolMentioned = true
		}
	}

	score := float64(mentions) / float64(mentions+2)

	impact := model.ImpactIndirect
	if symbolMentioned {
		impact = model.ImpactDirect
	}

	return score, impact
}
