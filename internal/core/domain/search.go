package domain

// SearchResult is a single tenant-scoped hit from the vector index.
// Results are ephemeral: produced by one search call and consumed
// immediately by the answering step.
type SearchResult struct {
	// Text is the matched chunk content.
	Text string

	// Source is the filename the chunk came from.
	Source string

	// Score is the cosine similarity score.
	Score float64
}

// Answer is the result of a question against a tenant's documents.
type Answer struct {
	// Text is the generated answer, or the fixed no-results message
	// when nothing matched.
	Text string

	// Sources is the deduplicated set of filenames used as context.
	// Order is not guaranteed.
	Sources []string

	// TenantID identifies whose documents were consulted.
	TenantID string
}
