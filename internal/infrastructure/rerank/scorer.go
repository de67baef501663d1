// Package rerank adapts heterogeneous pairwise relevance models to the
// single PairwiseScorer port. Models come in two capability shapes: a batch
// score call and a local predict call. The shape is resolved once here, at
// construction, never probed per query.
package rerank

import (
	"context"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/ports"
)

// ScoreModel is the remote-service shape: a context-aware batch score call.
type ScoreModel interface {
	Score(ctx context.Context, pairs [][2]string) ([]float64, error)
}

// PredictModel is the local-model shape: synchronous, infallible prediction.
type PredictModel interface {
	Predict(pairs [][2]string) []float64
}

type scoreAdapter struct {
	model ScoreModel
}

func (a *scoreAdapter) ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error) {
	return a.model.Score(ctx, buildPairs(query, passages))
}

type predictAdapter struct {
	model PredictModel
}

func (a *predictAdapter) ScorePairs(_ context.Context, query string, passages []string) ([]float64, error) {
	return a.model.Predict(buildPairs(query, passages)), nil
}

// Select picks the scorer for whichever model was supplied, preferring the
// score shape. A nil result means no capability is available and the reranker
// falls back to unscored truncation.
func Select(model any) ports.PairwiseScorer {
	if model == nil {
		return nil
	}
	if m, ok := model.(ScoreModel); ok {
		return &scoreAdapter{model: m}
	}
	if m, ok := model.(PredictModel); ok {
		return &predictAdapter{model: m}
	}
	return nil
}

func buildPairs(query string, passages []string) [][2]string {
	pairs := make([][2]string, len(passages))
	for i, passage := range passages {
		pairs[i] = [2]string{query, passage}
	}
	return pairs
}
