// Package crossencoder calls a hosted cross-encoder scoring service. It
// satisfies the rerank.ScoreModel capability shape.
package crossencoder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

// Score sends all (query, passage) pairs in one batch and returns one
// relevance score per pair, in input order.
func (c *Client) Score(ctx context.Context, pairs [][2]string) ([]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": c.model,
		"pairs": pairs,
	}
	var response struct {
		Scores []float64 `json:"scores"`
	}

	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/v1/score", request, &response)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "crossencoder.score", call, classifyScoreError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}
	if len(response.Scores) != len(pairs) {
		return nil, fmt.Errorf("scores/pairs mismatch: %d/%d", len(response.Scores), len(pairs))
	}
	return response.Scores, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cross-encoder request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &statusError{statusCode: resp.StatusCode, status: resp.Status, body: strings.TrimSpace(string(raw))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode score response: %w", err)
	}
	return nil
}

type statusError struct {
	statusCode int
	status     string
	body       string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("cross-encoder score status: %s", e.status)
	}
	return fmt.Sprintf("cross-encoder score status: %s: %s", e.status, e.body)
}

func classifyScoreError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var statusErr *statusError
	if errors.As(err, &statusErr) {
		switch statusErr.statusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		default:
			return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
