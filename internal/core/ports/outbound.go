package ports

import (
	"context"
	"io"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

// DocumentCatalog persists document metadata and ingestion state.
type DocumentCatalog interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveCounts(ctx context.Context, id string, pages, chunks int) error
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Path(key string) string
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor turns a source file into per-page text with metadata.
type TextExtractor interface {
	Extract(ctx context.Context, filePath, sourceName string) ([]domain.Page, error)
}

// Embedder builds dense vectors for chunk and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits extracted pages into retrievable chunks. IDs and vectors are
// left unset; the ingestion pipeline assigns them.
type Chunker interface {
	Chunk(ctx context.Context, pages []domain.Page) ([]domain.Chunk, error)
}

// VectorIndex is the persistent store of chunk vectors, texts and metadata.
type VectorIndex interface {
	Upsert(ctx context.Context, chunks []domain.Chunk) error
	DeleteBySource(ctx context.Context, sourceName string) (int, error)
	DeleteIDs(ctx context.Context, ids []string) error
	QueryNearest(ctx context.Context, vector []float32, k int) ([]domain.RetrievedChunk, error)
	GetAll(ctx context.Context) ([]domain.Chunk, error)
	Count(ctx context.Context) (int, error)
}

// LexicalIndex ranks a point-in-time snapshot of chunk texts by term
// relevance. Implementations are rebuilt per retriever session, never kept
// live-synchronized with the vector index.
type LexicalIndex interface {
	Search(query string, k int) []domain.RetrievedChunk
	Len() int
}

// LexicalIndexBuilder constructs a lexical snapshot from chunk texts.
type LexicalIndexBuilder interface {
	Build(chunks []domain.Chunk) LexicalIndex
}

// PairwiseScorer scores (query, passage) pairs jointly. The two concrete
// capability shapes (remote score call, local predict call) are selected at
// construction; callers never probe capabilities per call.
type PairwiseScorer interface {
	ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error)
}
