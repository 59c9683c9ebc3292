package driven

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// VectorStore wraps the external vector index.
//
// Tenant isolation is the safety-critical invariant of this port: Search
// applies an equality filter on the record's tenant field server-side, as
// part of the similarity query. There is no unfiltered search - a record
// belonging to another tenant must never appear in results, at any score.
type VectorStore interface {
	// EnsureCollection creates the backing collection with the configured
	// dimensionality and cosine distance if and only if it does not
	// already exist. Idempotent; safe to call on every process start.
	EnsureCollection(ctx context.Context) error

	// Upsert writes a batch of records, assigning each a fresh unique
	// identifier. The batch is not atomic: the underlying service is
	// eventually consistent per point, so a failed batch may leave some
	// points written. Callers treat failure as retryable.
	Upsert(ctx context.Context, records []domain.Record) error

	// Search returns up to k nearest records by cosine similarity,
	// restricted to records whose payload tenant equals tenantID.
	Search(ctx context.Context, vector []float32, tenantID string, k int) ([]domain.SearchResult, error)

	// Close releases resources.
	Close() error
}
