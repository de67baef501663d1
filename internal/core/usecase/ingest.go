package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/ports"
)

// IngestUseCase turns one source file into a generation of uniquely
// identified chunks in the vector index. Re-ingesting a source name deletes
// the prior generation before inserting, so at most one generation is visible
// at any time and re-runs never accumulate duplicates.
type IngestUseCase struct {
	extractor ports.TextExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	index     ports.VectorIndex
}

func NewIngestUseCase(
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	index ports.VectorIndex,
) *IngestUseCase {
	return &IngestUseCase{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
	}
}

func (uc *IngestUseCase) Ingest(ctx context.Context, filePath, sourceName string) (domain.IngestReport, error) {
	if sourceName == "" {
		sourceName = filepath.Base(filePath)
	}

	pages, err := uc.extractor.Extract(ctx, filePath, sourceName)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("extract pages: %w", err)
	}
	if len(pages) == 0 {
		return domain.IngestReport{}, domain.WrapError(domain.ErrEmptyDocument, "ingest", fmt.Errorf("no extractable text in %s", sourceName))
	}

	chunks, err := uc.chunker.Chunk(ctx, pages)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("chunk pages: %w", err)
	}
	if len(chunks) == 0 {
		return domain.IngestReport{}, domain.WrapError(domain.ErrEmptyDocument, "ingest", errors.New("chunking produced zero chunks"))
	}

	// chunk_index is dense and zero-based across the whole document; the
	// composite id stays collision-free because the previous generation is
	// deleted before this one is inserted.
	texts := make([]string, len(chunks))
	for i := range chunks {
		chunks[i].Metadata.SourceName = sourceName
		chunks[i].Metadata.ChunkIndex = i
		chunks[i].Metadata.FilePath = filePath
		chunks[i].ID = domain.ChunkID(sourceName, chunks[i].Metadata.PageNumber, i)
		texts[i] = chunks[i].Content
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return domain.IngestReport{}, domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}
	for i := range chunks {
		chunks[i].Vector = vectors[i]
	}

	// Embedding happens before the delete to keep the window in which the
	// source has zero visible chunks as narrow as possible. A crash between
	// delete and upsert leaves the source empty, which a re-run repairs.
	if _, err := uc.index.DeleteBySource(ctx, sourceName); err != nil {
		return domain.IngestReport{}, fmt.Errorf("delete previous generation: %w", err)
	}
	if err := uc.index.Upsert(ctx, chunks); err != nil {
		return domain.IngestReport{}, fmt.Errorf("upsert chunks: %w", err)
	}

	return domain.IngestReport{
		Source: sourceName,
		Pages:  len(pages),
		Chunks: len(chunks),
	}, nil
}

// IngestMany ingests files sequentially over the shared embedder and index
// handles. Each file's failure is captured in the report; one bad file never
// aborts its siblings.
func (uc *IngestUseCase) IngestMany(ctx context.Context, filePaths, sourceNames []string) (domain.BatchReport, error) {
	if len(sourceNames) > 0 && len(sourceNames) != len(filePaths) {
		return domain.BatchReport{}, domain.WrapError(
			domain.ErrInvalidInput,
			"ingest batch",
			errors.New("source_names length must match file_paths length"),
		)
	}

	report := domain.BatchReport{
		Ingested: []domain.IngestReport{},
		Failed:   []domain.IngestFailure{},
	}
	for i, path := range filePaths {
		sourceName := ""
		if len(sourceNames) > 0 {
			sourceName = sourceNames[i]
		}
		if sourceName == "" {
			sourceName = filepath.Base(path)
		}

		fileReport, err := uc.Ingest(ctx, path, sourceName)
		if err != nil {
			report.Failed = append(report.Failed, domain.IngestFailure{
				Source: sourceName,
				Error:  err.Error(),
			})
			continue
		}
		report.Ingested = append(report.Ingested, fileReport)
		report.TotalChunks += fileReport.Chunks
	}
	return report, nil
}

// ClearCorpus deletes every chunk currently in the vector index and returns
// how many were removed.
func (uc *IngestUseCase) ClearCorpus(ctx context.Context) (int, error) {
	chunks, err := uc.index.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("scan corpus: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
	}
	if err := uc.index.DeleteIDs(ctx, ids); err != nil {
		return 0, fmt.Errorf("delete corpus: %w", err)
	}
	return len(ids), nil
}
