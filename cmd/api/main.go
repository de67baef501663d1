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

	httpadapter "github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/adapters/http"
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
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	apiMetrics := metrics.NewAPIMetrics("api")
	app.RetrieveUC.OnStateObserved(apiMetrics.ObserveRetrieval)

	router := httpadapter.NewRouter(
		app.UploadUC,
		app.Catalog,
		app.IngestUC,
		app.RetrieveUC,
		apiMetrics,
		httpadapter.RouterConfig{
			RateLimitRPS:   cfg.APIRateLimitRPS,
			RateLimitBurst: cfg.APIRateLimitBurst,
			MaxInFlight:    cfg.APIMaxInFlight,
		},
	).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
}
