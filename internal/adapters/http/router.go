package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/ports"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/observability/metrics"
)

type RouterConfig struct {
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxInFlight     int
	InFlightTimeout time.Duration
}

type Router struct {
	uploader  ports.DocumentUploader
	reader    ports.DocumentReader
	ingestor  ports.CorpusIngestor
	retriever ports.CorpusRetriever
	metrics   *metrics.APIMetrics
	cfg       RouterConfig
}

func NewRouter(
	uploader ports.DocumentUploader,
	reader ports.DocumentReader,
	ingestor ports.CorpusIngestor,
	retriever ports.CorpusRetriever,
	apiMetrics *metrics.APIMetrics,
	cfg RouterConfig,
) *Router {
	return &Router{
		uploader:  uploader,
		reader:    reader,
		ingestor:  ingestor,
		retriever: retriever,
		metrics:   apiMetrics,
		cfg:       cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/query", rt.query)
	mux.HandleFunc("/v1/corpus", rt.clearCorpus)
	mux.HandleFunc("/v1/retriever/refresh", rt.refreshRetriever)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.cfg.MaxInFlight > 0 {
		timeout := rt.cfg.InFlightTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		handler = backpressureMiddleware(handler, rt.cfg.MaxInFlight, timeout)
	}
	if rt.cfg.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
	}
	handler = accessLogMiddleware(handler, rt.metrics)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.uploader.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type queryResponseChunk struct {
	Content string   `json:"content"`
	Source  string   `json:"source"`
	Page    int      `json:"page"`
	Score   *float64 `json:"score,omitempty"`
}

func (rt *Router) query(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question string   `json:"question"`
		TopN     int      `json:"top_n"`
		Sources  []string `json:"sources"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	result := rt.retriever.Retrieve(r.Context(), req.Question, req.TopN, req.Sources)

	chunks := make([]queryResponseChunk, 0, len(result.Chunks))
	for _, chunk := range result.Chunks {
		out := queryResponseChunk{
			Content: chunk.Content,
			Source:  chunk.Metadata.SourceName,
			Page:    chunk.Metadata.PageNumber,
		}
		if chunk.Scored {
			score := chunk.Score
			out.Score = &score
		}
		chunks = append(chunks, out)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"state":   result.State,
		"results": chunks,
	})
}

func (rt *Router) clearCorpus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	deleted, err := rt.ingestor.ClearCorpus(r.Context())
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	rt.retriever.Invalidate()

	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (rt *Router) refreshRetriever(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	rt.retriever.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput), domain.IsKind(err, domain.ErrUnsupportedFormat), domain.IsKind(err, domain.ErrEmptyDocument):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
