package chunking

import (
	"context"
	"strings"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

// WindowChunker splits page text into fixed rune windows with overlap. It is
// the fallback when sentence embedding is unavailable and the explicit
// CHUNKING_MODE=window option.
type WindowChunker struct {
	ChunkSize int
	Overlap   int
}

func NewWindowChunker(chunkSize, overlap int) *WindowChunker {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &WindowChunker{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

func (c *WindowChunker) Chunk(_ context.Context, pages []domain.Page) ([]domain.Chunk, error) {
	out := make([]domain.Chunk, 0, len(pages))
	for _, page := range pages {
		for _, text := range c.split(page.Text) {
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

func (c *WindowChunker) split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.ChunkSize - c.Overlap
	if step <= 0 {
		step = c.ChunkSize
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + c.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
