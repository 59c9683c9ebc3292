package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// IngestService runs the document-to-retrieval pipeline:
// extract, normalise, chunk, embed, store.
type IngestService interface {
	// Ingest persists the uploaded stream into the tenant's upload area
	// and runs the full pipeline over it.
	Ingest(ctx context.Context, tenantID, filename string, r io.Reader) (*domain.IngestResult, error)

	// IngestFile runs the pipeline over a file already present in the
	// tenant's upload area. Used by the upload watcher.
	IngestFile(ctx context.Context, tenantID, path string) (*domain.IngestResult, error)

	// History returns the ingestion catalog rows for one tenant.
	History(ctx context.Context, tenantID string) ([]domain.Ingestion, error)
}
