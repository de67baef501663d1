package bootstrap

import (
	"context"
	"fmt"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/config"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/ports"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/usecase"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/chunking"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/embedding/ollama"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/extractor"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/lexical"
	natsqueue "github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/queue/nats"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/repository/postgres"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/rerank"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/rerank/crossencoder"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/rerank/lexicalmodel"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/resilience"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/storage/localfs"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/vector/sqlitevec"
)

type App struct {
	Config config.Config

	Queue    ports.MessageQueue
	Catalog  ports.DocumentCatalog
	Storage  ports.ObjectStorage
	UploadUC ports.DocumentUploader

	IngestUC   ports.CorpusIngestor
	ProcessUC  ports.DocumentProcessor
	RetrieveUC *usecase.RetrieveUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	catalog := postgres.NewDocumentCatalog(db)
	if err := catalog.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	store, err := sqlitevec.Open(cfg.StoreDir, cfg.StoreAllowRepair)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	embedder := ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel, executor)
	chunker := buildChunker(cfg, embedder)
	extractors := extractor.NewRegistry()

	var scorer ports.PairwiseScorer
	if cfg.CrossEncoderURL != "" {
		scorer = rerank.Select(crossencoder.New(cfg.CrossEncoderURL, cfg.CrossEncoderModel, executor))
	} else {
		scorer = rerank.Select(lexicalmodel.New())
	}

	ingestUC := usecase.NewIngestUseCase(extractors, chunker, embedder, store)
	processUC := usecase.NewProcessUseCase(catalog, storage, ingestUC)
	uploadUC := usecase.NewUploadUseCase(catalog, storage, queue)
	retrieveUC := usecase.NewRetrieveUseCase(embedder, store, lexical.NewBuilder(), scorer, usecase.RetrieveConfig{
		TopK:           cfg.RetrievalTopK,
		RerankTopN:     cfg.RerankTopN,
		FusionStrategy: cfg.FusionStrategy,
		FusionRRFK:     cfg.FusionRRFK,
	})

	return &App{
		Config: cfg,

		Queue:    queue,
		Catalog:  catalog,
		Storage:  storage,
		UploadUC: uploadUC,

		IngestUC:   ingestUC,
		ProcessUC:  processUC,
		RetrieveUC: retrieveUC,

		closeFn: func() {
			queue.Close()
			_ = store.Close()
			_ = db.Close()
		},
	}, nil
}

func buildChunker(cfg config.Config, embedder ports.Embedder) ports.Chunker {
	window := chunking.NewWindowChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if cfg.ChunkingMode == "window" {
		return window
	}
	return chunking.NewSemanticChunker(embedder, cfg.BreakpointPercentile, window)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
