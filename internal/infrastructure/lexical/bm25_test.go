package lexical

import (
	"testing"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

func chunk(id, content string) domain.Chunk {
	return domain.Chunk{ID: id, Content: content}
}

func TestSearchRanksByRelevance(t *testing.T) {
	idx := BuildIndex([]domain.Chunk{
		chunk("c1", "the cat sat on the mat"),
		chunk("c2", "dogs chase cats in the park"),
		chunk("c3", "quarterly revenue grew by ten percent"),
	})

	hits := idx.Search("cat mat", 10)
	if len(hits) == 0 {
		t.Fatalf("expected hits for matching query")
	}
	if hits[0].ID != "c1" {
		t.Fatalf("expected c1 first, got %s", hits[0].ID)
	}
	for _, hit := range hits {
		if hit.Score <= 0 {
			t.Fatalf("expected positive score, got %f for %s", hit.Score, hit.ID)
		}
		if hit.ID == "c3" {
			t.Fatalf("expected no hit for unrelated chunk")
		}
	}
}

func TestSearchRespectsK(t *testing.T) {
	idx := BuildIndex([]domain.Chunk{
		chunk("c1", "alpha beta"),
		chunk("c2", "alpha gamma"),
		chunk("c3", "alpha delta"),
	})

	hits := idx.Search("alpha", 2)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits := idx.Search("alpha", 0); hits != nil {
		t.Fatalf("expected nil for k=0, got %v", hits)
	}
}

func TestSearchNoMatches(t *testing.T) {
	idx := BuildIndex([]domain.Chunk{chunk("c1", "alpha beta")})

	if hits := idx.Search("zeta", 5); len(hits) != 0 {
		t.Fatalf("expected no hits, got %v", hits)
	}
	if hits := idx.Search("!!!", 5); len(hits) != 0 {
		t.Fatalf("expected no hits for token-free query, got %v", hits)
	}
}

func TestBuildSkipsTokenFreeChunks(t *testing.T) {
	idx := BuildIndex([]domain.Chunk{
		chunk("c1", "real words"),
		chunk("c2", "   "),
		chunk("c3", "---"),
	})
	if idx.Len() != 1 {
		t.Fatalf("expected 1 indexed chunk, got %d", idx.Len())
	}
}

func TestEmptyIndex(t *testing.T) {
	idx := BuildIndex(nil)
	if idx.Len() != 0 {
		t.Fatalf("expected empty index")
	}
	if hits := idx.Search("anything", 5); hits != nil {
		t.Fatalf("expected nil hits from empty index, got %v", hits)
	}
}

func TestTokenizeAlphaNum(t *testing.T) {
	tokens := tokenizeAlphaNum("Hello, World! v2.0")
	want := []string{"hello", "world", "v2", "0"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, tokens)
		}
	}
}
