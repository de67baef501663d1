package usecase

import (
	"context"
	"fmt"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/ports"
)

// ProcessUseCase drives the worker-side pipeline for one uploaded document:
// load its catalog entry, run the ingestion pipeline on the stored file, and
// record the outcome.
type ProcessUseCase struct {
	catalog  ports.DocumentCatalog
	storage  ports.ObjectStorage
	ingestor ports.CorpusIngestor
}

func NewProcessUseCase(
	catalog ports.DocumentCatalog,
	storage ports.ObjectStorage,
	ingestor ports.CorpusIngestor,
) *ProcessUseCase {
	return &ProcessUseCase{
		catalog:  catalog,
		storage:  storage,
		ingestor: ingestor,
	}
}

func (uc *ProcessUseCase) ProcessByID(ctx context.Context, documentID string) (domain.IngestReport, error) {
	doc, err := uc.catalog.GetByID(ctx, documentID)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("fetch document by id: %w", err)
	}

	if err := uc.catalog.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return domain.IngestReport{}, fmt.Errorf("set status=processing: %w", err)
	}

	report, err := uc.ingestor.Ingest(ctx, uc.storage.Path(doc.StoragePath), doc.SourceName)
	if err != nil {
		if failErr := uc.catalog.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return domain.IngestReport{}, fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return domain.IngestReport{}, err
	}

	if err := uc.catalog.SaveCounts(ctx, documentID, report.Pages, report.Chunks); err != nil {
		return report, fmt.Errorf("save ingest counts: %w", err)
	}
	if err := uc.catalog.UpdateStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return report, fmt.Errorf("set status=ready: %w", err)
	}
	return report, nil
}
