package usecase

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/ports"
)

// rerankCandidates rescores the fused pool with the pairwise model, sorts by
// score descending with the fusion order as a stable tie-break, and truncates
// to topN. A missing or failing scorer is never an error: the first topN
// candidates come back unscored instead.
func rerankCandidates(
	ctx context.Context,
	scorer ports.PairwiseScorer,
	query string,
	candidates []domain.RetrievedChunk,
	topN int,
) []domain.RetrievedChunk {
	if len(candidates) == 0 {
		return candidates
	}
	if topN <= 0 || topN > len(candidates) {
		topN = len(candidates)
	}
	if scorer == nil {
		return unscoredHead(candidates, topN)
	}

	passages := make([]string, len(candidates))
	for i, c := range candidates {
		passages[i] = c.Content
	}

	scores, err := scorer.ScorePairs(ctx, query, passages)
	if err != nil || len(scores) != len(candidates) {
		slog.Warn("reranker_unavailable", "candidates", len(candidates), "error", err)
		return unscoredHead(candidates, topN)
	}

	scored := make([]domain.RetrievedChunk, len(candidates))
	for i, c := range candidates {
		c.Score = scores[i]
		c.Scored = true
		scored[i] = c
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored[:topN]
}

func unscoredHead(candidates []domain.RetrievedChunk, topN int) []domain.RetrievedChunk {
	head := make([]domain.RetrievedChunk, topN)
	copy(head, candidates[:topN])
	return head
}
