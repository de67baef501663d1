package domain

// RetrievalState tells the caller which stage of the retrieval chain produced
// the result. Degraded means the hybrid path failed and only lexical matches
// were returned; Empty means both paths failed and the result set carries no
// evidence.
type RetrievalState string

const (
	RetrievalFull     RetrievalState = "full"
	RetrievalDegraded RetrievalState = "degraded"
	RetrievalEmpty    RetrievalState = "empty"
)

// RetrievedChunk is a chunk surfaced by retrieval. Score is populated only
// when Scored is true (reranker ran); fused-but-unreranked chunks keep the
// retriever-native score with Scored false.
type RetrievedChunk struct {
	Chunk
	Score  float64 `json:"score,omitempty"`
	Scored bool    `json:"scored"`
}

// RetrievalResult is the outcome of one query against the corpus.
type RetrievalResult struct {
	State  RetrievalState   `json:"state"`
	Chunks []RetrievedChunk `json:"chunks"`
}
