// Package stubservice implements a local stand-in for the paragraph
// analysis service. It answers the same route with the same response
// shape, so the editor can run against it when no real service is
// deployed.
package stubservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPort matches the analysis service's development default.
const DefaultPort = 5000

// Server is the stub analysis service.
// It starts a local HTTP server answering POST /paragraph/analyze.
type Server struct {
	mu       sync.Mutex
	port     int
	server   *http.Server
	listener net.Listener
	errChan  chan error
}

// NewServer creates a stub server for the given port.
// Port 0 picks a random available port.
func NewServer(port int) *Server {
	return &Server{
		port:    port,
		errChan: make(chan error, 1),
	}
}

// Start starts the stub server on the configured port.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Store the actual port (important when port was 0)
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	return nil
}

// Stop shuts down the stub server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Err reports a server failure after Start, if any.
func (s *Server) Err() <-chan error {
	return s.errChan
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Endpoint returns the base URL clients should use.
func (s *Server) Endpoint() string {
	return fmt.Sprintf("http://localhost:%d", s.Port())
}

// Handler returns the stub's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.URL.Path == "/paragraph/analyze" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		s.handleAnalyze(w, r)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// analyzeRequest is the analysis request format.
type analyzeRequest struct {
	Paragraphs []string `json:"paragraphs"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	results := make([]map[string]any, 0, len(req.Paragraphs))
	for i := range req.Paragraphs {
		results = append(results, map[string]any{
			"index":        i,
			"analysisData": cannedAnalysisData(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"analysisResults": results})
}

// cannedAnalysisData returns the fixed per-paragraph payload. The
// readibilityScore misspelling is part of the wire contract; clients
// round-trip the field as-is.
func cannedAnalysisData() map[string]any {
	return map[string]any{
		"sentimentScore":   0.5,
		"readibilityScore": 0.5,
		"topics":           []string{"topic1", "topic2"},
		"summary":          "summary",
		"suggestions":      []string{"suggestion1", "suggestion2"},
		"references":       []string{"reference1", "reference2"},
		"tags":             []string{"tag1", "tag2"},
	}
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header())
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf("stubservice: %s %s -> %d (%dms)",
			r.Method, r.URL.Path, writer.status, time.Since(started).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// setCORSHeaders allows browser-based editors to call the stub from
// any origin, the way the real service does.
func setCORSHeaders(header http.Header) {
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "POST,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return fmt.Errorf("invalid JSON body")
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}
