package lexicalmodel

import "testing"

func TestPredictScoresByQueryOverlap(t *testing.T) {
	model := New()
	scores := model.Predict([][2]string{
		{"risk report", "the annual risk report summary"},
		{"risk report", "risk levels rising"},
		{"risk report", "unrelated cooking recipe"},
	})

	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if scores[0] != 1.0 {
		t.Fatalf("expected full overlap score 1.0, got %f", scores[0])
	}
	if scores[1] != 0.5 {
		t.Fatalf("expected half overlap score 0.5, got %f", scores[1])
	}
	if scores[2] != 0 {
		t.Fatalf("expected zero score for unrelated passage, got %f", scores[2])
	}
}

func TestPredictCaseAndPunctuationInsensitive(t *testing.T) {
	model := New()
	scores := model.Predict([][2]string{{"Risk!", "high RISK."}})
	if scores[0] != 1.0 {
		t.Fatalf("expected normalized token match, got %f", scores[0])
	}
}

func TestPredictEmptyInputs(t *testing.T) {
	model := New()
	if out := model.Predict(nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %v", out)
	}
	scores := model.Predict([][2]string{{"", "some passage"}})
	if scores[0] != 0 {
		t.Fatalf("expected zero score for empty query, got %f", scores[0])
	}
}
