package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/bootstrap"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/config"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/observability/logging"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", workerMetrics.Handler())
		log.Printf("worker metrics listening on :%s", cfg.WorkerMetricsPort)
		if err := http.ListenAndServe(":"+cfg.WorkerMetricsPort, mux); err != nil && err != http.ErrServerClosed {
			log.Printf("worker metrics server error: %v", err)
		}
	}()

	log.Printf("worker subscribed to %s", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentUploaded(ctx, func(handlerCtx context.Context, documentID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		workerMetrics.StartIngest()
		start := time.Now()
		report, processErr := app.ProcessUC.ProcessByID(processCtx, documentID)
		workerMetrics.FinishIngest("worker", time.Since(start), report.Chunks, processErr)
		if processErr == nil {
			app.RetrieveUC.Invalidate()
		}
		return processErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
