package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/ports"
)

const (
	FusionInterleave = "interleave"
	FusionRRF        = "rrf"
)

type RetrieveConfig struct {
	TopK           int
	RerankTopN     int
	FusionStrategy string
	FusionRRFK     int
}

func (c RetrieveConfig) normalize() RetrieveConfig {
	out := c
	if out.TopK <= 0 {
		out.TopK = 10
	}
	if out.RerankTopN <= 0 {
		out.RerankTopN = 3
	}
	if out.FusionStrategy != FusionRRF {
		out.FusionStrategy = FusionInterleave
	}
	if out.FusionRRFK <= 0 {
		out.FusionRRFK = 60
	}
	return out
}

// RetrieveUseCase is the caller-owned retrieval handle. It lazily builds the
// lexical snapshot from the vector index on first use and keeps it until
// Invalidate; a query never fails outright — the result state records how far
// down the fallback chain it landed.
type RetrieveUseCase struct {
	embedder ports.Embedder
	index    ports.VectorIndex
	builder  ports.LexicalIndexBuilder
	scorer   ports.PairwiseScorer
	cfg      RetrieveConfig

	// observeState reports each query's terminal state to metrics.
	observeState func(domain.RetrievalState)

	mu      sync.Mutex
	lexical ports.LexicalIndex
	stale   bool
}

func NewRetrieveUseCase(
	embedder ports.Embedder,
	index ports.VectorIndex,
	builder ports.LexicalIndexBuilder,
	scorer ports.PairwiseScorer,
	cfg RetrieveConfig,
) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder: embedder,
		index:    index,
		builder:  builder,
		scorer:   scorer,
		cfg:      cfg.normalize(),
		stale:    true,
	}
}

// OnStateObserved registers a callback invoked with the terminal state of
// every Retrieve call.
func (uc *RetrieveUseCase) OnStateObserved(fn func(domain.RetrievalState)) {
	uc.observeState = fn
}

// Invalidate marks the lexical snapshot stale. Callers must invoke it after
// any ingestion so the next query rebuilds its view of the corpus.
func (uc *RetrieveUseCase) Invalidate() {
	uc.mu.Lock()
	uc.stale = true
	uc.mu.Unlock()
}

// Retrieve walks the three-state chain: full pipeline (fusion then rerank),
// then fusion-without-vector fallback, then empty. Source filtering applies
// after retrieval as a pure metadata filter; a blank filter set means no
// filter, while a valid filter that matches nothing returns an empty list.
func (uc *RetrieveUseCase) Retrieve(ctx context.Context, query string, topN int, sourceFilter []string) domain.RetrievalResult {
	if topN <= 0 {
		topN = uc.cfg.RerankTopN
	}

	result := uc.retrieveChain(ctx, query, topN)
	result.Chunks = filterBySources(result.Chunks, sourceFilter)

	if uc.observeState != nil {
		uc.observeState(result.State)
	}
	return result
}

func (uc *RetrieveUseCase) retrieveChain(ctx context.Context, query string, topN int) domain.RetrievalResult {
	fused, err := uc.fuse(ctx, query)
	if err == nil {
		return domain.RetrievalResult{
			State:  domain.RetrievalFull,
			Chunks: rerankCandidates(ctx, uc.scorer, query, fused, topN),
		}
	}
	slog.Warn("retrieval_degraded", "query_len", len(query), "error", err)

	// The vector side is down; the lexical snapshot can still rank. Output
	// is truncated only by the fusion stage's own k, not the rerank topN.
	base, baseErr := uc.lexicalOnly(ctx, query)
	if baseErr == nil && len(base) > 0 {
		return domain.RetrievalResult{
			State:  domain.RetrievalDegraded,
			Chunks: trimCandidates(base, uc.cfg.TopK),
		}
	}
	if baseErr != nil {
		slog.Error("retrieval_empty", "query_len", len(query), "error", baseErr)
	}

	return domain.RetrievalResult{
		State:  domain.RetrievalEmpty,
		Chunks: []domain.RetrievedChunk{},
	}
}

// fuse runs the lexical and vector retrievers for one query and merges their
// top-k lists. An empty lexical snapshot degrades to vector-only output with
// no error; a vector-side failure is an error for the caller to handle.
func (uc *RetrieveUseCase) fuse(ctx context.Context, query string) ([]domain.RetrievedChunk, error) {
	lexicalHits, err := uc.lexicalOnly(ctx, query)
	if err != nil {
		// Lexical build failure degrades fusion to vector-only.
		slog.Warn("lexical_snapshot_unavailable", "error", err)
		lexicalHits = nil
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	vectorHits, err := uc.index.QueryNearest(ctx, queryVector, uc.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}

	if uc.cfg.FusionStrategy == FusionRRF {
		return fuseRRF(lexicalHits, vectorHits, uc.cfg.FusionRRFK), nil
	}
	return fuseInterleave(lexicalHits, vectorHits), nil
}

func (uc *RetrieveUseCase) lexicalOnly(ctx context.Context, query string) ([]domain.RetrievedChunk, error) {
	lexical, err := uc.ensureLexical(ctx)
	if err != nil {
		return nil, err
	}
	if lexical.Len() == 0 {
		return nil, nil
	}
	return lexical.Search(query, uc.cfg.TopK), nil
}

func (uc *RetrieveUseCase) ensureLexical(ctx context.Context) (ports.LexicalIndex, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.lexical != nil && !uc.stale {
		return uc.lexical, nil
	}

	chunks, err := uc.index.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot corpus: %w", err)
	}
	uc.lexical = uc.builder.Build(chunks)
	uc.stale = false
	return uc.lexical, nil
}

// filterBySources keeps chunks whose source is in the allow-list. Blank and
// whitespace-only entries are discarded first; if nothing survives, the
// filter is treated as absent.
func filterBySources(chunks []domain.RetrievedChunk, sourceFilter []string) []domain.RetrievedChunk {
	allowed := make(map[string]struct{}, len(sourceFilter))
	for _, source := range sourceFilter {
		if s := strings.TrimSpace(source); s != "" {
			allowed[s] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		return chunks
	}

	out := make([]domain.RetrievedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if _, ok := allowed[chunk.Metadata.SourceName]; ok {
			out = append(out, chunk)
		}
	}
	return out
}
