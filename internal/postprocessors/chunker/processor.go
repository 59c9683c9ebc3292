// Package chunker provides a fixed-size overlapping text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 800

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 150

// Processor splits document content into fixed-size overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from
// document content. Boundaries are character-index based, not
// word-aware: the overlap window is the mitigation for split words,
// not boundary alignment.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	windows := Split(doc.Content, p.chunkSize, p.overlap)
	if len(windows) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(windows))
	for i, text := range windows {
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			TenantID: doc.TenantID,
			Source:   doc.Filename,
			Content:  text,
			Position: i,
		})
	}

	return chunks, nil
}

// Split cuts text into overlapping windows of size characters.
// Deterministic and restartable: a pure function of its inputs.
//
// The advance step is clamped to at least one character so that
// overlap >= size can never cause non-termination. The last window may be
// shorter than size; empty or whitespace-only input yields no windows.
func Split(text string, size, overlap int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}

	step := size - overlap
	if step < 1 {
		step = 1
	}

	runes := []rune(text)
	length := len(runes)

	windows := make([]string, 0, length/step+1)
	for start := 0; start < length; start += step {
		end := start + size
		if end > length {
			end = length
		}
		windows = append(windows, string(runes[start:end]))
	}

	return windows
}
