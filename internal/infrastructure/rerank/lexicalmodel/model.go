// Package lexicalmodel is the local pairwise relevance model used when no
// cross-encoder service is configured. It scores each (query, passage) pair
// by query-token overlap and satisfies the rerank.PredictModel shape.
package lexicalmodel

import (
	"strings"
	"unicode"
)

type Model struct{}

func New() *Model {
	return &Model{}
}

func (m *Model) Predict(pairs [][2]string) []float64 {
	out := make([]float64, len(pairs))
	for i, pair := range pairs {
		out[i] = tokenOverlap(toTokenSet(pair[0]), toTokenSet(pair[1]))
	}
	return out
}

func tokenOverlap(query, passage map[string]struct{}) float64 {
	if len(query) == 0 || len(passage) == 0 {
		return 0
	}
	matches := 0
	for token := range query {
		if _, ok := passage[token]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(query))
}

func toTokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{}, 16)
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			out[b.String()] = struct{}{}
			b.Reset()
		}
	}
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}
