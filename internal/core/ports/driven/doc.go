// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// Services in internal/core/services depend on these interfaces, never on
// concrete adapters. Adapters in internal/adapters/driven implement them.
// This keeps external services - the embedding API, the generation API,
// the vector index, the catalog database - substitutable with test doubles.
package driven
