package driven

import "context"

// TextExtractor produces raw text from a persisted document.
//
// Implementations run an ordered cascade of extraction strategies and stop
// at the first whose output looks like real prose. Extraction never fails
// for a structurally valid document: when every tier produces insufficient
// text the last tier's output is returned as-is, possibly empty, and the
// caller surfaces that downstream as zero chunks.
type TextExtractor interface {
	// Extract returns the text of the document at path.
	Extract(ctx context.Context, path string) (string, error)

	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string
}

// CommandRunner executes an external command and returns its stdout.
// Extraction tools (pdftotext, pdftoppm, tesseract) run through this
// interface so the cascade can be unit-tested with doubles.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
