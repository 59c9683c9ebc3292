// Package cleaner provides a text normalisation processor.
package cleaner

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// Extraction output carries artefacts of the page layout: uneven runs of
// spaces, words broken across line wraps with a trailing hyphen, stacked
// blank lines. Clean removes them before chunking.
var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	brokenHyphen  = regexp.MustCompile(`-\s+`)
	newlineRun    = regexp.MustCompile(`\n+`)
)

// Processor normalises document content in place.
// It implements the PostProcessor interface.
type Processor struct{}

// New creates a new cleaner processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "cleaner"
}

// Process replaces the document content with its cleaned form.
// Chunks pass through unchanged; this processor does not create them.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return chunks, domain.ErrInvalidInput
	}
	doc.Content = Clean(doc.Content)
	return chunks, nil
}

// Clean canonicalises whitespace and dehyphenates line-wrapped words.
// It is pure and idempotent: Clean(Clean(x)) == Clean(x).
//
// The hyphen pattern matches a hyphen followed by whitespace, so it still
// fires after whitespace runs are collapsed to a single space. The order
// below keeps that property; reordering breaks dehyphenation.
func Clean(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = brokenHyphen.ReplaceAllString(text, "")
	text = newlineRun.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
