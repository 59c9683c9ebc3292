package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a document type no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service call failed.
	// Ingestion of the affected chunks is aborted or the chunks are
	// skipped, depending on the configured policy - never dropped silently.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generation service is not reachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrStoreUnavailable indicates a vector index write or query failed.
	// Surfaced to the caller as retryable; the ingestion is not complete.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrDimensionMismatch indicates an embedding's length does not match
	// the collection's configured dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrExtractionDegraded indicates every extraction tier returned
	// insufficient text. Not fatal: ingestion proceeds with whatever was
	// produced, possibly zero chunks. Used for diagnostics only.
	ErrExtractionDegraded = errors.New("extraction degraded")
)
