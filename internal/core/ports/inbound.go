package ports

import (
	"context"
	"io"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

// DocumentUploader is the inbound contract for document upload orchestration.
type DocumentUploader interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// CorpusIngestor is the inbound contract for the ingestion pipeline.
type CorpusIngestor interface {
	Ingest(ctx context.Context, filePath, sourceName string) (domain.IngestReport, error)
	IngestMany(ctx context.Context, filePaths, sourceNames []string) (domain.BatchReport, error)
	ClearCorpus(ctx context.Context) (int, error)
}

// DocumentProcessor is the inbound contract for asynchronous processing of an
// uploaded document.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) (domain.IngestReport, error)
}

// CorpusRetriever is the inbound contract for hybrid retrieval with
// reranking. Retrieve never returns an error; degradation is reported through
// the result state. Invalidate marks the lexical snapshot stale so the next
// query rebuilds it.
type CorpusRetriever interface {
	Retrieve(ctx context.Context, query string, topN int, sourceFilter []string) domain.RetrievalResult
	Invalidate()
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}
