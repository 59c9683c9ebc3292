// Package domain defines the core business entities for docquery.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: An uploaded document before extraction
//   - Document: Extracted and normalised document text
//   - Chunk: An overlapping slice of document text, the unit of embedding
//   - Record: A chunk with its embedding, as stored in the vector index
//   - Answer: A generated answer with its source attribution
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
