package chunking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

// semanticEmbedderFake maps sentences starting with "z" to an orthogonal
// vector so the distance spike lands exactly before them.
type semanticEmbedderFake struct {
	err   error
	short bool
	calls int
}

func (f *semanticEmbedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	n := len(texts)
	if f.short && n > 0 {
		n--
	}
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		if strings.HasPrefix(texts[i], "z") {
			vectors[i] = []float32{0, 1}
		} else {
			vectors[i] = []float32{1, 0}
		}
	}
	return vectors, nil
}

func (f *semanticEmbedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func TestSemanticChunkerCutsAtDistanceSpike(t *testing.T) {
	chunker := NewSemanticChunker(&semanticEmbedderFake{}, 50, nil)
	pages := []domain.Page{{Text: "alpha facts. also alpha. zulu topic.", Number: 1, SourceName: "a.txt"}}

	chunks, err := chunker.Chunk(context.Background(), pages)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %+v", chunks)
	}
	if chunks[0].Content != "alpha facts. also alpha." {
		t.Fatalf("unexpected first chunk %q", chunks[0].Content)
	}
	if chunks[1].Content != "zulu topic." {
		t.Fatalf("unexpected second chunk %q", chunks[1].Content)
	}
	if chunks[0].Metadata.PageNumber != 1 || chunks[0].Metadata.SourceName != "a.txt" {
		t.Fatalf("expected page metadata carried over, got %+v", chunks[0].Metadata)
	}
}

func TestSemanticChunkerSingleSentencePage(t *testing.T) {
	embedder := &semanticEmbedderFake{}
	chunker := NewSemanticChunker(embedder, 95, nil)
	pages := []domain.Page{{Text: "just one sentence", Number: 1}}

	chunks, err := chunker.Chunk(context.Background(), pages)
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(chunks) != 1 || chunks[0].Content != "just one sentence" {
		t.Fatalf("expected passthrough chunk, got %+v", chunks)
	}
	if embedder.calls != 0 {
		t.Fatalf("expected no embedding for single-sentence page")
	}
}

func TestSemanticChunkerFallsBackOnEmbedError(t *testing.T) {
	embedder := &semanticEmbedderFake{err: errors.New("embedder down")}
	chunker := NewSemanticChunker(embedder, 95, NewWindowChunker(10, 0))
	pages := []domain.Page{{Text: "first sentence. second sentence.", Number: 1}}

	chunks, err := chunker.Chunk(context.Background(), pages)
	if err != nil {
		t.Fatalf("expected window fallback, got error %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected window-sized chunks, got %+v", chunks)
	}
	for _, c := range chunks {
		if len([]rune(c.Content)) > 10 {
			t.Fatalf("fallback chunk exceeds window: %q", c.Content)
		}
	}
}

func TestSemanticChunkerFallsBackOnVectorMismatch(t *testing.T) {
	embedder := &semanticEmbedderFake{short: true}
	chunker := NewSemanticChunker(embedder, 95, NewWindowChunker(100, 0))
	pages := []domain.Page{{Text: "first sentence. second sentence.", Number: 1}}

	chunks, err := chunker.Chunk(context.Background(), pages)
	if err != nil {
		t.Fatalf("expected window fallback, got error %v", err)
	}
	if len(chunks) == 0 {
		t.Fatalf("expected fallback chunks")
	}
}

func TestSemanticChunkerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	embedder := &semanticEmbedderFake{err: context.Canceled}
	chunker := NewSemanticChunker(embedder, 95, nil)
	pages := []domain.Page{{Text: "first sentence. second sentence.", Number: 1}}

	if _, err := chunker.Chunk(ctx, pages); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation to propagate, got %v", err)
	}
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("One. Two!\nThree? Four")
	want := []string{"One.", "Two!", "Three?", "Four"}
	if len(sentences) != len(want) {
		t.Fatalf("expected %v, got %v", want, sentences)
	}
	for i := range want {
		if sentences[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, sentences)
		}
	}
}

func TestPercentileOf(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4}
	if got := percentileOf(values, 100); got != 0.4 {
		t.Fatalf("expected max at p100, got %f", got)
	}
	if got := percentileOf(values, 50); got != 0.2 {
		t.Fatalf("expected median-ish at p50, got %f", got)
	}
	if got := percentileOf(nil, 95); got != 0 {
		t.Fatalf("expected 0 for empty input, got %f", got)
	}
}
