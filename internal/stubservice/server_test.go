package stubservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margin-labs/margo/internal/adapters/driven/analysis"
	"github.com/margin-labs/margo/internal/core/domain"
)

type analyzeResponseBody struct {
	AnalysisResults []struct {
		Index        int            `json:"index"`
		AnalysisData map[string]any `json:"analysisData"`
	} `json:"analysisResults"`
}

func postAnalyze(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/paragraph/analyze", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestServer_AnalyzeReturnsResultPerParagraph(t *testing.T) {
	server := httptest.NewServer(NewServer(0).Handler())
	defer server.Close()

	resp := postAnalyze(t, server.URL, `{"paragraphs": ["First.", "Second."]}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var decoded analyzeResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Len(t, decoded.AnalysisResults, 2)

	assert.Equal(t, 0, decoded.AnalysisResults[0].Index)
	assert.Equal(t, 1, decoded.AnalysisResults[1].Index)

	data := decoded.AnalysisResults[0].AnalysisData
	assert.Equal(t, 0.5, data["sentimentScore"])
	assert.Contains(t, data, "readibilityScore", "the misspelt field is part of the contract")
	assert.Equal(t, []any{"suggestion1", "suggestion2"}, data["suggestions"])
	assert.Equal(t, "summary", data["summary"])
	assert.Equal(t, []any{"tag1", "tag2"}, data["tags"])
}

func TestServer_AnalyzeEmptyParagraphs(t *testing.T) {
	server := httptest.NewServer(NewServer(0).Handler())
	defer server.Close()

	resp := postAnalyze(t, server.URL, `{"paragraphs": []}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded analyzeResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Empty(t, decoded.AnalysisResults)
}

func TestServer_AnalyzeMissingParagraphsKey(t *testing.T) {
	server := httptest.NewServer(NewServer(0).Handler())
	defer server.Close()

	// The real service treats a missing key as an empty list.
	resp := postAnalyze(t, server.URL, `{}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded analyzeResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Empty(t, decoded.AnalysisResults)
}

func TestServer_AnalyzeInvalidBody(t *testing.T) {
	server := httptest.NewServer(NewServer(0).Handler())
	defer server.Close()

	resp := postAnalyze(t, server.URL, `not json`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Equal(t, "INVALID_BODY", decoded["code"])
}

func TestServer_MethodNotAllowed(t *testing.T) {
	server := httptest.NewServer(NewServer(0).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/paragraph/analyze")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_UnknownRoute(t *testing.T) {
	server := httptest.NewServer(NewServer(0).Handler())
	defer server.Close()

	resp, err := http.Post(server.URL+"/other", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_OptionsPreflight(t *testing.T) {
	server := httptest.NewServer(NewServer(0).Handler())
	defer server.Close()

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/paragraph/analyze", http.NoBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func TestServer_EchoesRequestID(t *testing.T) {
	server := httptest.NewServer(NewServer(0).Handler())
	defer server.Close()

	req, err := http.NewRequest(http.MethodPost, server.URL+"/paragraph/analyze",
		strings.NewReader(`{"paragraphs": []}`))
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "trace-me-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "trace-me-42", resp.Header.Get("X-Request-ID"))
}

func TestServer_StartStop(t *testing.T) {
	server := NewServer(0)

	require.NoError(t, server.Start())
	assert.NotZero(t, server.Port(), "port 0 should resolve to a real port")

	resp := postAnalyze(t, server.Endpoint(), `{"paragraphs": ["Hello."]}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, server.Stop())
}

func TestServer_ClientRoundTrip(t *testing.T) {
	server := httptest.NewServer(NewServer(0).Handler())
	defer server.Close()

	client := analysis.NewClient(analysis.Config{Endpoint: server.URL})

	require.NoError(t, client.Ping(context.Background()))

	findings, err := client.Analyse(context.Background(), []domain.Span{
		{From: 0, To: 12, Text: "One thought.", Line: 1},
		{From: 13, To: 25, Text: "Another one.", Line: 2},
	})

	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, 0, findings[0].Index)
	assert.Equal(t, []string{"suggestion1", "suggestion2"}, findings[0].Data.Suggestions)
	assert.Contains(t, string(findings[0].Data.Raw), "readibilityScore")
}
