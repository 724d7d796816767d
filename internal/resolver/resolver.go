// Package resolver maps free-text mentions to known instrument symbols.
package resolver

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"

	"newssense/internal/model"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a token to
// match a registry term without an exact hit.
const fuzzyThreshold = 0.85

// Registry lists the instruments entity resolution matches against.
type Registry interface {
	ListIdentifiers() ([]model.Instrument, error)
}

type Resolver struct {
	registry Registry
}

func New(registry Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve returns the symbols of every instrument mentioned in the
// text, sorted and deduplicated. It never mutates the registry.
func (r *Resolver) Resolve(text string) ([]string, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	instruments, err := r.registry.ListIdentifiers()
	if err != nil {
		return nil, err
	}

	if len(instruments) == 0 {
		return nil, nil
	}

	idx := buildIndex(instruments)
	matched := make(map[string]struct{})

	for _, token := range tokens {
		// Exact index hit wins; fuzzy scoring only runs for tokens
		// with no exact match, against the same-initial shortlist.
		if symbols, ok := idx.exact[token]; ok {
			for _, s := range symbols {
				matched[s] = struct{}{}
			}
			continue
		}

		for _, entry := range idx.byInitial[token[0]] {
			if smetrics.JaroWinkler(token, entry.term, 0.7, 4) > fuzzyThreshold {
				matched[entry.symbol] = struct{}{}
			}
		}
	}

	if len(matched) == 0 {
		return nil, nil
	}

	symbols := make([]string, 0, len(matched))
	for s := range matched {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	return symbols, nil
}

type termEntry struct {
	term   string
	symbol string
}

type index struct {
	exact     map[string][]string
	byInitial map[byte][]termEntry
}

// buildIndex builds an inverted term index over one registry snapshot.
// An instrument's term set is its symbol, its ISIN and the
// whitespace-split tokens of its display name and related-entity
// aliases, all lowercased.
func buildIndex(instruments []model.Instrument) *index {
	idx := &index{
		exact:     make(map[string][]string),
		byInitial: make(map[byte][]termEntry),
	}

	for _, instrument := range instruments {
		terms := make(map[string]struct{})

		terms[strings.ToLower(instrument.Symbol)] = struct{}{}
		if instrument.ISIN != "" {
			terms[strings.ToLower(instrument.ISIN)] = struct{}{}
		}
		for _, t := range strings.Fields(strings.ToLower(instrument.Name)) {
			terms[t] = struct{}{}
		}
		for _, alias := range instrument.RelatedEntities {
			for _, t := range strings.Fields(strings.ToLower(alias)) {
				terms[t] = struct{}{}
			}
		}

		for term := range terms {
			if term == "" {
				continue
			}
			idx.exact[term] = append(idx.exact[term], instrument.Symbol)
			idx.byInitial[term[0]] = append(idx.byInitial[term[0]], termEntry{
				term:   term,
				symbol: instrument.Symbol,
			})
		}
	}

	return idx
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
