// Package analysis provides the HTTP client for the paragraph
// analysis service.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/margin-labs/margo/internal/core/domain"
	"github.com/margin-labs/margo/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.AnalysisService = (*Client)(nil)

// Default configuration values.
const (
	DefaultEndpoint = "http://localhost:5000"
	DefaultTimeout  = 30 * time.Second
)

// analyzePath is the service's analysis route. American spelling is
// part of the wire contract.
const analyzePath = "/paragraph/analyze"

// maxErrorBody caps how much of a failure response is kept for the
// error message.
const maxErrorBody = 4 << 10

// Config holds configuration for the analysis client.
type Config struct {
	// Endpoint is the service base URL (default: http://localhost:5000).
	Endpoint string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Client provides paragraph analysis over HTTP.
type Client struct {
	client   *http.Client
	endpoint string
}

// analyzeRequest is the service's request format.
type analyzeRequest struct {
	Paragraphs []string `json:"paragraphs"`
}

// analyzeResult is one entry of the service's response.
type analyzeResult struct {
	Index        int                 `json:"index"`
	AnalysisData domain.AnalysisData `json:"analysisData"`
	Metadata     map[string]any      `json:"metadata,omitempty"`
}

// analyzeResponse is the service's response format.
type analyzeResponse struct {
	AnalysisResults []analyzeResult `json:"analysisResults"`
}

// NewClient creates a new analysis client.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
	}
}

// Analyse submits spans for analysis and returns per-span findings.
// A cancelled context surfaces as the context's own error so callers
// can tell supersession from transport failure.
func (c *Client) Analyse(ctx context.Context, spans []domain.Span) ([]domain.Finding, error) {
	paragraphs := make([]string, len(spans))
	for i, span := range spans {
		paragraphs[i] = span.Text
	}

	jsonBody, err := json.Marshal(analyzeRequest{Paragraphs: paragraphs})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint+analyzePath,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.TransportError{Status: resp.StatusCode, Body: string(body)}
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}

	findings := make([]domain.Finding, 0, len(decoded.AnalysisResults))
	for _, result := range decoded.AnalysisResults {
		findings = append(findings, domain.Finding{
			Index:    result.Index,
			Data:     result.AnalysisData,
			Metadata: result.Metadata,
		})
	}

	return findings, nil
}

// Ping validates the service is reachable by submitting an empty
// analysis request. Cheap for the service, and it exercises the same
// route real traffic uses.
func (c *Client) Ping(ctx context.Context) error {
	jsonBody, err := json.Marshal(analyzeRequest{Paragraphs: []string{}})
	if err != nil {
		return fmt.Errorf("marshal ping request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint+analyzePath,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.TransportError{Status: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// Endpoint returns the base URL the client is bound to.
func (c *Client) Endpoint() string {
	return c.endpoint
}
