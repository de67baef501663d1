package chunking

import (
	"context"
	"strings"
	"testing"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

func TestWindowChunkerSplitsWithOverlap(t *testing.T) {
	chunker := NewWindowChunker(10, 4)
	pages := []domain.Page{{Text: strings.Repeat("abcdef", 5), Number: 1, SourceName: "a.txt"}}

	chunks, err := chunker.Chunk(context.Background(), pages)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len([]rune(c.Content)) > 10 {
			t.Fatalf("chunk exceeds window size: %q", c.Content)
		}
		if c.Metadata.PageNumber != 1 || c.Metadata.SourceName != "a.txt" {
			t.Fatalf("expected page metadata carried over, got %+v", c.Metadata)
		}
	}

	// Consecutive windows share the configured overlap.
	first := []rune(chunks[0].Content)
	second := chunks[1].Content
	if !strings.HasPrefix(second, string(first[len(first)-4:])) {
		t.Fatalf("expected 4-rune overlap between %q and %q", chunks[0].Content, second)
	}
}

func TestWindowChunkerShortPage(t *testing.T) {
	chunker := NewWindowChunker(100, 10)
	pages := []domain.Page{{Text: "tiny", Number: 3}}

	chunks, err := chunker.Chunk(context.Background(), pages)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(chunks) != 1 || chunks[0].Content != "tiny" {
		t.Fatalf("expected single chunk, got %+v", chunks)
	}
}

func TestWindowChunkerSkipsBlankPages(t *testing.T) {
	chunker := NewWindowChunker(100, 10)
	pages := []domain.Page{{Text: "   ", Number: 1}, {Text: "", Number: 2}}

	chunks, err := chunker.Chunk(context.Background(), pages)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for blank pages, got %d", len(chunks))
	}
}

func TestWindowChunkerDefaults(t *testing.T) {
	chunker := NewWindowChunker(0, -5)
	if chunker.ChunkSize != 800 || chunker.Overlap != 0 {
		t.Fatalf("unexpected defaults %d/%d", chunker.ChunkSize, chunker.Overlap)
	}
	chunker = NewWindowChunker(100, 100)
	if chunker.Overlap != 25 {
		t.Fatalf("expected overlap clamped to quarter window, got %d", chunker.Overlap)
	}
}
