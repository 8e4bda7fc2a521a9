package driven

import (
	"context"

	"github.com/margin-labs/margo/internal/core/domain"
)

// AnalysisService provides paragraph analysis for extracted spans.
// A single call carries every span of one cycle, in document order;
// the returned findings refer back to spans by request position.
//
// Cancelling the context abandons the request. The checker treats a
// context cancellation as silent supersession, and any other failure
// as a *domain.TransportError aborting the cycle.
type AnalysisService interface {
	// Analyse submits spans for analysis and returns per-span findings.
	// Findings arrive in request order; a missing index means the
	// service had nothing to say about that span.
	Analyse(ctx context.Context, spans []domain.Span) ([]domain.Finding, error)

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup to fail fast on a bad endpoint.
	Ping(ctx context.Context) error

	// Endpoint returns the base URL the service is bound to.
	Endpoint() string
}
