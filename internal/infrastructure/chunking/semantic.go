// Package chunking splits extracted pages into retrievable chunks. The
// semantic chunker places boundaries at points of maximal embedding-distance
// between adjacent sentences instead of fixed character counts.
package chunking

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/ports"
)

type SemanticChunker struct {
	embedder   ports.Embedder
	percentile float64
	fallback   *WindowChunker
}

// NewSemanticChunker builds a chunker that cuts where the cosine distance
// between adjacent sentence embeddings exceeds the given percentile of the
// page's distance distribution. fallback handles pages when embedding fails.
func NewSemanticChunker(embedder ports.Embedder, percentile float64, fallback *WindowChunker) *SemanticChunker {
	if percentile <= 0 || percentile > 100 {
		percentile = 95
	}
	if fallback == nil {
		fallback = NewWindowChunker(0, 0)
	}
	return &SemanticChunker{
		embedder:   embedder,
		percentile: percentile,
		fallback:   fallback,
	}
}

func (c *SemanticChunker) Chunk(ctx context.Context, pages []domain.Page) ([]domain.Chunk, error) {
	out := make([]domain.Chunk, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}

		texts, err := c.chunkPage(ctx, page.Text)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			slog.Warn("semantic_chunking_fallback",
				"source", page.SourceName,
				"page", page.Number,
				"error", err,
			)
			texts = c.fallback.split(page.Text)
		}

		for _, text := range texts {
			out = append(out, domain.Chunk{
				Content: text,
				Metadata: domain.ChunkMetadata{
					SourceName: page.SourceName,
					PageNumber: page.Number,
				},
			})
		}
	}
	return out, nil
}

func (c *SemanticChunker) chunkPage(ctx context.Context, text string) ([]string, error) {
	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return []string{strings.TrimSpace(text)}, nil
	}

	vectors, err := c.embedder.Embed(ctx, sentences)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d sentences", len(vectors), len(sentences))
	}

	distances := make([]float64, len(sentences)-1)
	for i := range distances {
		distances[i] = 1 - cosineSimilarity(vectors[i], vectors[i+1])
	}
	threshold := percentileOf(distances, c.percentile)

	out := make([]string, 0, 4)
	var b strings.Builder
	b.WriteString(sentences[0])
	for i := 1; i < len(sentences); i++ {
		if distances[i-1] > threshold {
			out = append(out, strings.TrimSpace(b.String()))
			b.Reset()
		} else {
			b.WriteString(" ")
		}
		b.WriteString(sentences[i])
	}
	if segment := strings.TrimSpace(b.String()); segment != "" {
		out = append(out, segment)
	}
	return out, nil
}

// splitSentences cuts on sentence terminators and newlines, keeping the
// terminator with the preceding sentence.
func splitSentences(text string) []string {
	out := make([]string, 0, 16)
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}

	for _, r := range text {
		switch r {
		case '.', '!', '?':
			b.WriteRune(r)
			flush()
		case '\n':
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return out
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func percentileOf(values []float64, pct float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(math.Ceil(pct/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
