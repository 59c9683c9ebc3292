package domain

import "time"

// IngestStatus tracks an ingestion through the catalog.
type IngestStatus string

// Ingestion lifecycle states.
const (
	// IngestStatusPending is set before the vector upsert. A row left in
	// pending after a crash or store failure signals that re-ingestion is
	// required.
	IngestStatusPending IngestStatus = "pending"

	// IngestStatusComplete means all surviving chunks are in the index.
	IngestStatusComplete IngestStatus = "complete"

	// IngestStatusFailed means the ingestion did not reach the index.
	IngestStatusFailed IngestStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s IngestStatus) IsValid() bool {
	switch s {
	case IngestStatusPending, IngestStatusComplete, IngestStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s IngestStatus) String() string {
	return string(s)
}

// Ingestion is one catalog row recording the fate of one upload.
type Ingestion struct {
	// ID is the unique identifier for the ingestion.
	ID string

	// TenantID scopes the row to one tenant.
	TenantID string

	// Filename is the upload's base filename.
	Filename string

	// ChunkCount is the number of chunks written to the vector index.
	ChunkCount int

	// Status is the current lifecycle state.
	Status IngestStatus

	// CreatedAt is when the ingestion started.
	CreatedAt time.Time

	// UpdatedAt is when the status last changed.
	UpdatedAt time.Time
}

// IngestResult is returned to the caller when an ingestion finishes.
type IngestResult struct {
	// Status is the final lifecycle state.
	Status IngestStatus

	// Filename is the source filename.
	Filename string

	// TenantID identifies the owning tenant.
	TenantID string

	// ChunkCount is the number of chunks stored.
	ChunkCount int

	// SkippedChunks counts chunks dropped under the "skip" embedding
	// failure policy. Always zero under the "abort" policy.
	SkippedChunks int
}
