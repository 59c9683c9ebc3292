package driving

import (
	"context"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// AnswerService answers natural-language questions from a tenant's
// ingested documents.
type AnswerService interface {
	// Answer embeds the question, retrieves the tenant's k nearest
	// chunks, and composes a grounded answer. k <= 0 selects the default.
	Answer(ctx context.Context, question, tenantID string, k int) (*domain.Answer, error)
}
