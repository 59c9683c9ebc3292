package driven

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// IngestionCatalog records the fate of each upload.
//
// A row is created in the pending state before the vector upsert and
// moved to complete or failed afterwards, so an interrupted ingestion is
// visible to operators and retryable by re-uploading.
type IngestionCatalog interface {
	// Create inserts a new ingestion row in the pending state.
	Create(ctx context.Context, ing *domain.Ingestion) error

	// MarkComplete records a finished ingestion and its chunk count.
	MarkComplete(ctx context.Context, id string, chunkCount int) error

	// MarkFailed records a failed ingestion.
	MarkFailed(ctx context.Context, id string) error

	// Get returns one ingestion by ID.
	// Returns domain.ErrNotFound if no such row exists.
	Get(ctx context.Context, id string) (*domain.Ingestion, error)

	// ListByTenant returns all ingestions for one tenant, newest first.
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Ingestion, error)

	// Close releases resources.
	Close() error
}
