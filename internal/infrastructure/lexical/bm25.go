// Package lexical provides the in-memory BM25 index built from a snapshot of
// all chunk texts in the vector index. The snapshot is rebuilt per retriever
// session, never live-synchronized with writes.
package lexical

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/ports"
)

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

type indexedChunk struct {
	chunk     domain.Chunk
	termFreq  map[string]int
	tokensLen int
}

type Index struct {
	chunks    []indexedChunk
	docFreq   map[string]int
	avgTokens float64
}

type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Build(chunks []domain.Chunk) ports.LexicalIndex {
	return BuildIndex(chunks)
}

func BuildIndex(chunks []domain.Chunk) *Index {
	idx := &Index{
		chunks:  make([]indexedChunk, 0, len(chunks)),
		docFreq: make(map[string]int),
	}

	totalTokens := 0
	for _, chunk := range chunks {
		tokens := tokenizeAlphaNum(chunk.Content)
		if len(tokens) == 0 {
			continue
		}

		tf := make(map[string]int, len(tokens))
		for _, token := range tokens {
			tf[token]++
		}
		for token := range tf {
			idx.docFreq[token]++
		}

		totalTokens += len(tokens)
		idx.chunks = append(idx.chunks, indexedChunk{
			chunk:     chunk,
			termFreq:  tf,
			tokensLen: len(tokens),
		})
	}
	if len(idx.chunks) > 0 {
		idx.avgTokens = float64(totalTokens) / float64(len(idx.chunks))
	}
	return idx
}

func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Search ranks the snapshot by BM25 relevance to the query and returns the
// top k chunks with positive scores.
func (idx *Index) Search(query string, k int) []domain.RetrievedChunk {
	if len(idx.chunks) == 0 || k <= 0 {
		return nil
	}
	queryTokens := tokenizeAlphaNum(query)
	if len(queryTokens) == 0 {
		return nil
	}

	type scored struct {
		pos   int
		score float64
	}
	results := make([]scored, 0, len(idx.chunks))
	for pos, doc := range idx.chunks {
		score := idx.scoreDoc(queryTokens, doc)
		if score > 0 {
			results = append(results, scored{pos: pos, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].pos < results[j].pos
	})
	if len(results) > k {
		results = results[:k]
	}

	out := make([]domain.RetrievedChunk, 0, len(results))
	for _, r := range results {
		out = append(out, domain.RetrievedChunk{
			Chunk: idx.chunks[r.pos].chunk,
			Score: r.score,
		})
	}
	return out
}

func (idx *Index) scoreDoc(queryTokens []string, doc indexedChunk) float64 {
	n := float64(len(idx.chunks))
	lengthNorm := bm25K1 * (1 - bm25B + bm25B*float64(doc.tokensLen)/idx.avgTokens)

	var score float64
	for _, token := range queryTokens {
		tf := float64(doc.termFreq[token])
		if tf == 0 {
			continue
		}
		df := float64(idx.docFreq[token])
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		score += idf * tf * (bm25K1 + 1) / (tf + lengthNorm)
	}
	return score
}

func tokenizeAlphaNum(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 24)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
