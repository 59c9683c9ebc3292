package domain

import "time"

// RawDocument represents an uploaded document before text extraction.
// It exists only for the duration of an ingestion.
type RawDocument struct {
	// TenantID scopes the document to one tenant.
	TenantID string

	// Filename is the original upload filename (base name, no directories).
	Filename string

	// Path is the location of the persisted bytes in the upload area.
	Path string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string
}

// Document is the extracted, normalised text of one upload.
// It is handed to the post-processor pipeline and discarded after chunking.
type Document struct {
	// ID is the unique identifier assigned at extraction time.
	ID string

	// TenantID scopes the document to one tenant.
	TenantID string

	// Filename is the source filename carried into every chunk.
	Filename string

	// Content is the full text after extraction and normalisation.
	Content string

	// CreatedAt is when extraction ran.
	CreatedAt time.Time
}

// Chunk is a bounded, overlapping slice of document text.
// Chunks are immutable once created and are the unit of embedding.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// TenantID scopes the chunk to one tenant.
	TenantID string

	// Source is the filename of the document this chunk came from.
	Source string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int
}

// Record is a chunk paired with its embedding, ready for the vector index.
// Every record carries exactly one tenant; the vector store enforces that
// searches never cross tenant boundaries.
type Record struct {
	// ID is assigned fresh at upsert time.
	ID string

	// Vector is the embedding. Its length must equal the collection's
	// configured dimensionality or the record is rejected before storage.
	Vector []float32

	// Text is the chunk content stored in the payload.
	Text string

	// Source is the originating filename stored in the payload.
	Source string

	// TenantID is the isolation key stored in the payload.
	TenantID string
}
