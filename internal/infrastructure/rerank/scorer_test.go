package rerank

import (
	"context"
	"errors"
	"testing"
)

type scoreModelFake struct {
	pairs [][2]string
	err   error
}

func (f *scoreModelFake) Score(_ context.Context, pairs [][2]string) ([]float64, error) {
	f.pairs = pairs
	if f.err != nil {
		return nil, f.err
	}
	out := make([]float64, len(pairs))
	for i := range out {
		out[i] = float64(i)
	}
	return out, nil
}

type predictModelFake struct {
	pairs [][2]string
}

func (f *predictModelFake) Predict(pairs [][2]string) []float64 {
	f.pairs = pairs
	return make([]float64, len(pairs))
}

// bothShapesFake exposes Score and Predict; Select must prefer Score.
type bothShapesFake struct {
	scoreModelFake
	predictCalled bool
}

func (f *bothShapesFake) Predict(pairs [][2]string) []float64 {
	f.predictCalled = true
	return make([]float64, len(pairs))
}

func TestSelectScoreModel(t *testing.T) {
	model := &scoreModelFake{}
	scorer := Select(model)
	if scorer == nil {
		t.Fatalf("expected scorer for score model")
	}

	scores, err := scorer.ScorePairs(context.Background(), "query", []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("ScorePairs() error = %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if model.pairs[0] != [2]string{"query", "p1"} || model.pairs[1] != [2]string{"query", "p2"} {
		t.Fatalf("unexpected pairs %v", model.pairs)
	}
}

func TestSelectScoreModelPropagatesError(t *testing.T) {
	scorer := Select(&scoreModelFake{err: errors.New("service down")})

	_, err := scorer.ScorePairs(context.Background(), "query", []string{"p1"})
	if err == nil {
		t.Fatalf("expected error from score model")
	}
}

func TestSelectPredictModel(t *testing.T) {
	model := &predictModelFake{}
	scorer := Select(model)
	if scorer == nil {
		t.Fatalf("expected scorer for predict model")
	}

	scores, err := scorer.ScorePairs(context.Background(), "query", []string{"p1"})
	if err != nil {
		t.Fatalf("ScorePairs() error = %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %d", len(scores))
	}
	if model.pairs[0][1] != "p1" {
		t.Fatalf("unexpected pairs %v", model.pairs)
	}
}

func TestSelectPrefersScoreShape(t *testing.T) {
	model := &bothShapesFake{}
	scorer := Select(model)

	if _, err := scorer.ScorePairs(context.Background(), "query", []string{"p1"}); err != nil {
		t.Fatalf("ScorePairs() error = %v", err)
	}
	if model.predictCalled {
		t.Fatalf("expected score shape preferred over predict")
	}
	if len(model.scoreModelFake.pairs) != 1 {
		t.Fatalf("expected score call, got pairs %v", model.scoreModelFake.pairs)
	}
}

func TestSelectNoCapability(t *testing.T) {
	if Select(nil) != nil {
		t.Fatalf("expected nil scorer for nil model")
	}
	if Select("not a model") != nil {
		t.Fatalf("expected nil scorer for capability-free value")
	}
}
