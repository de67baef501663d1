package usecase

import (
	"hash/fnv"
	"sort"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

// fuseInterleave merges the two ranked lists round-robin by rank position,
// lexical first at each round, skipping candidates whose content hash was
// already emitted. Rank position is the fusion signal because lexical and
// vector scores are not on a common scale.
func fuseInterleave(lexical, vector []domain.RetrievedChunk) []domain.RetrievedChunk {
	out := make([]domain.RetrievedChunk, 0, len(lexical)+len(vector))
	seen := make(map[uint64]struct{}, len(lexical)+len(vector))

	emit := func(chunk domain.RetrievedChunk) {
		key := contentHash(chunk.Content)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, chunk)
	}

	rounds := max(len(lexical), len(vector))
	for rank := 0; rank < rounds; rank++ {
		if rank < len(lexical) {
			emit(lexical[rank])
		}
		if rank < len(vector) {
			emit(vector[rank])
		}
	}
	return out
}

// fuseRRF is the alternative reciprocal-rank-fusion strategy: each list
// contributes 1/(k+rank+1) per appearance, deduplicated by chunk id.
func fuseRRF(lexical, vector []domain.RetrievedChunk, rrfK int) []domain.RetrievedChunk {
	if rrfK <= 0 {
		rrfK = 60
	}

	type fused struct {
		chunk domain.RetrievedChunk
		score float64
	}
	acc := make(map[string]fused, len(lexical)+len(vector))
	addList := func(chunks []domain.RetrievedChunk) {
		for rank, chunk := range chunks {
			candidate, ok := acc[chunk.ID]
			if !ok {
				candidate.chunk = chunk
			}
			candidate.score += 1.0 / float64(rrfK+rank+1)
			acc[chunk.ID] = candidate
		}
	}

	addList(lexical)
	addList(vector)

	out := make([]domain.RetrievedChunk, 0, len(acc))
	for _, c := range acc {
		chunk := c.chunk
		chunk.Score = c.score
		out = append(out, chunk)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func trimCandidates(chunks []domain.RetrievedChunk, limit int) []domain.RetrievedChunk {
	if limit <= 0 || len(chunks) <= limit {
		return chunks
	}
	return chunks[:limit]
}

func contentHash(content string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(content))
	return h.Sum64()
}
