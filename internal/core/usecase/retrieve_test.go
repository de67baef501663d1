package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/ports"
)

type retrieveEmbedderFake struct {
	queryErr error
}

func (f *retrieveEmbedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

func (f *retrieveEmbedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return []float32{1, 0}, nil
}

type retrieveIndexFake struct {
	nearest    []domain.RetrievedChunk
	nearestErr error
	all        []domain.Chunk
	allErr     error
}

func (f *retrieveIndexFake) Upsert(context.Context, []domain.Chunk) error { return nil }
func (f *retrieveIndexFake) DeleteBySource(context.Context, string) (int, error) {
	return 0, nil
}
func (f *retrieveIndexFake) DeleteIDs(context.Context, []string) error { return nil }

func (f *retrieveIndexFake) QueryNearest(context.Context, []float32, int) ([]domain.RetrievedChunk, error) {
	if f.nearestErr != nil {
		return nil, f.nearestErr
	}
	return f.nearest, nil
}

func (f *retrieveIndexFake) GetAll(context.Context) ([]domain.Chunk, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	return f.all, nil
}

func (f *retrieveIndexFake) Count(context.Context) (int, error) { return len(f.all), nil }

type lexicalIndexFake struct {
	hits []domain.RetrievedChunk
}

func (f *lexicalIndexFake) Search(string, int) []domain.RetrievedChunk { return f.hits }
func (f *lexicalIndexFake) Len() int                                   { return len(f.hits) }

type lexicalBuilderFake struct {
	hits   []domain.RetrievedChunk
	builds int
}

func (f *lexicalBuilderFake) Build([]domain.Chunk) ports.LexicalIndex {
	f.builds++
	return &lexicalIndexFake{hits: f.hits}
}

func sourced(id, content, source string) domain.RetrievedChunk {
	return domain.RetrievedChunk{Chunk: domain.Chunk{
		ID:       id,
		Content:  content,
		Metadata: domain.ChunkMetadata{SourceName: source},
	}}
}

func TestRetrieveFullStateRerankedOrder(t *testing.T) {
	index := &retrieveIndexFake{
		nearest: []domain.RetrievedChunk{
			sourced("v1", "vector one", "a.txt"),
			sourced("v2", "vector two", "a.txt"),
			sourced("v3", "vector three", "b.txt"),
		},
	}
	scorer := &scorerFake{scores: []float64{0.2, 0.9, 0.5}}
	uc := NewRetrieveUseCase(&retrieveEmbedderFake{}, index, &lexicalBuilderFake{}, scorer, RetrieveConfig{})

	result := uc.Retrieve(context.Background(), "question", 2, nil)
	if result.State != domain.RetrievalFull {
		t.Fatalf("expected full state, got %s", result.State)
	}
	if len(result.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(result.Chunks))
	}
	if result.Chunks[0].ID != "v2" || result.Chunks[1].ID != "v3" {
		t.Fatalf("expected reranked [v2 v3], got [%s %s]", result.Chunks[0].ID, result.Chunks[1].ID)
	}
	if !result.Chunks[0].Scored || result.Chunks[0].Score != 0.9 {
		t.Fatalf("expected score 0.9 on first chunk, got %+v", result.Chunks[0])
	}
}

func TestRetrieveRerankerFailureKeepsFullState(t *testing.T) {
	index := &retrieveIndexFake{
		nearest: []domain.RetrievedChunk{
			sourced("v1", "vector one", "a.txt"),
			sourced("v2", "vector two", "a.txt"),
		},
	}
	scorer := &scorerFake{err: errors.New("scorer down")}
	uc := NewRetrieveUseCase(&retrieveEmbedderFake{}, index, &lexicalBuilderFake{}, scorer, RetrieveConfig{})

	result := uc.Retrieve(context.Background(), "question", 1, nil)
	if result.State != domain.RetrievalFull {
		t.Fatalf("expected full state on reranker fallback, got %s", result.State)
	}
	if len(result.Chunks) != 1 || result.Chunks[0].ID != "v1" || result.Chunks[0].Scored {
		t.Fatalf("expected unscored fusion head, got %+v", result.Chunks)
	}
}

func TestRetrieveDegradedOnVectorFailure(t *testing.T) {
	index := &retrieveIndexFake{nearestErr: errors.New("index corrupt")}
	builder := &lexicalBuilderFake{hits: []domain.RetrievedChunk{
		sourced("l1", "lexical one", "a.txt"),
		sourced("l2", "lexical two", "b.txt"),
	}}
	uc := NewRetrieveUseCase(&retrieveEmbedderFake{}, index, builder, &scorerFake{}, RetrieveConfig{})

	result := uc.Retrieve(context.Background(), "question", 1, nil)
	if result.State != domain.RetrievalDegraded {
		t.Fatalf("expected degraded state, got %s", result.State)
	}
	if len(result.Chunks) != 2 {
		t.Fatalf("expected lexical results untrimmed by topN, got %d", len(result.Chunks))
	}
	if result.Chunks[0].Scored {
		t.Fatalf("expected unscored chunks in degraded state")
	}
}

func TestRetrieveEmptyWhenAllRetrieversFail(t *testing.T) {
	index := &retrieveIndexFake{
		nearestErr: errors.New("index corrupt"),
		allErr:     errors.New("index corrupt"),
	}
	uc := NewRetrieveUseCase(&retrieveEmbedderFake{}, index, &lexicalBuilderFake{}, &scorerFake{}, RetrieveConfig{})

	var observed []domain.RetrievalState
	uc.OnStateObserved(func(state domain.RetrievalState) {
		observed = append(observed, state)
	})

	result := uc.Retrieve(context.Background(), "question", 3, nil)
	if result.State != domain.RetrievalEmpty {
		t.Fatalf("expected empty state, got %s", result.State)
	}
	if result.Chunks == nil || len(result.Chunks) != 0 {
		t.Fatalf("expected non-nil empty chunk list, got %v", result.Chunks)
	}
	if len(observed) != 1 || observed[0] != domain.RetrievalEmpty {
		t.Fatalf("expected one observed empty state, got %v", observed)
	}
}

func TestRetrieveSourceFilter(t *testing.T) {
	index := &retrieveIndexFake{
		nearest: []domain.RetrievedChunk{
			sourced("v1", "vector one", "a.txt"),
			sourced("v2", "vector two", "b.txt"),
		},
	}
	uc := NewRetrieveUseCase(&retrieveEmbedderFake{}, index, &lexicalBuilderFake{}, nil, RetrieveConfig{})

	// Blank and whitespace-only entries mean no filter at all.
	result := uc.Retrieve(context.Background(), "question", 2, []string{"", "  "})
	if len(result.Chunks) != 2 {
		t.Fatalf("expected blank filter to pass everything, got %d", len(result.Chunks))
	}

	result = uc.Retrieve(context.Background(), "question", 2, []string{"b.txt"})
	if len(result.Chunks) != 1 || result.Chunks[0].Metadata.SourceName != "b.txt" {
		t.Fatalf("expected only b.txt chunks, got %+v", result.Chunks)
	}

	// A real filter that matches nothing yields an empty result, not an error.
	result = uc.Retrieve(context.Background(), "question", 2, []string{"nope.txt"})
	if result.State != domain.RetrievalFull || len(result.Chunks) != 0 {
		t.Fatalf("expected full state with zero chunks, got %s/%d", result.State, len(result.Chunks))
	}
}

func TestRetrieveInvalidateRebuildsSnapshot(t *testing.T) {
	index := &retrieveIndexFake{
		nearest: []domain.RetrievedChunk{sourced("v1", "vector one", "a.txt")},
		all:     []domain.Chunk{{ID: "v1", Content: "vector one"}},
	}
	builder := &lexicalBuilderFake{hits: []domain.RetrievedChunk{sourced("l1", "lexical one", "a.txt")}}
	uc := NewRetrieveUseCase(&retrieveEmbedderFake{}, index, builder, nil, RetrieveConfig{})

	uc.Retrieve(context.Background(), "question", 2, nil)
	uc.Retrieve(context.Background(), "question", 2, nil)
	if builder.builds != 1 {
		t.Fatalf("expected snapshot reuse across queries, got %d builds", builder.builds)
	}

	uc.Invalidate()
	uc.Retrieve(context.Background(), "question", 2, nil)
	if builder.builds != 2 {
		t.Fatalf("expected rebuild after Invalidate, got %d builds", builder.builds)
	}
}

func TestRetrieveDefaultTopN(t *testing.T) {
	index := &retrieveIndexFake{
		nearest: []domain.RetrievedChunk{
			sourced("v1", "one", "a.txt"),
			sourced("v2", "two", "a.txt"),
			sourced("v3", "three", "a.txt"),
			sourced("v4", "four", "a.txt"),
		},
	}
	uc := NewRetrieveUseCase(&retrieveEmbedderFake{}, index, &lexicalBuilderFake{}, nil, RetrieveConfig{RerankTopN: 3})

	result := uc.Retrieve(context.Background(), "question", 0, nil)
	if len(result.Chunks) != 3 {
		t.Fatalf("expected configured default top_n=3, got %d", len(result.Chunks))
	}
}
