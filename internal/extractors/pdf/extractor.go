// Package pdf extracts text from PDF documents through a tiered cascade.
//
// Three strategies run in order, stopping at the first whose output looks
// like real prose:
//
//  1. fast: pdftotext in reading order, cheap and right for most PDFs
//  2. layout: pdftotext -layout, preserves column ordering the fast pass
//     mis-orders or drops
//  3. ocr: pdftoppm rasterisation at 300 DPI plus tesseract per page, for
//     scanned or image-only documents
//
// The sufficiency test is a word count threshold: a handful of headers or
// extraction noise fails it, a page of prose passes. When every tier falls
// short the last tier's output is returned as-is - extraction never fails
// for a structurally valid PDF, and an empty result is a valid outcome
// that surfaces downstream as zero chunks.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// DefaultMinWords is the default sufficiency threshold: a tier's output
// counts as real prose when it has more than this many words.
const DefaultMinWords = 50

// ocrDPI is the rasterisation resolution for the OCR tier.
const ocrDPI = "300"

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// ErrOCRToolNotFound indicates pdftoppm or tesseract is not installed.
var ErrOCRToolNotFound = errors.New("pdftoppm or tesseract not found in PATH")

// Extractor runs the extraction cascade over PDF files.
type Extractor struct {
	runner   driven.CommandRunner
	minWords int
}

// Option configures the extractor.
type Option func(*Extractor)

// WithMinWords sets the sufficiency threshold.
func WithMinWords(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minWords = n
		}
	}
}

// WithRunner injects a command runner. Used by tests to substitute the
// external tools with doubles.
func WithRunner(r driven.CommandRunner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

// New creates a PDF extractor with the given options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		runner:   execRunner{},
		minWords: DefaultMinWords,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// strategy is one named extraction tier.
type strategy struct {
	name string
	run  func(ctx context.Context, path string) (string, error)
}

// strategies returns the cascade in fallback order. New tiers slot in
// here without touching Extract.
func (e *Extractor) strategies() []strategy {
	return []strategy{
		{name: "fast", run: e.extractFast},
		{name: "layout", run: e.extractLayout},
		{name: "ocr", run: e.extractOCR},
	}
}

// Extract runs the cascade and returns the first sufficient output, or
// the last tier's output when nothing passes the threshold. It returns an
// error only when every tier failed to execute at all.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	var (
		last string
		ran  bool
		errs []error
	)

	for _, s := range e.strategies() {
		text, err := s.run(ctx, path)
		if err != nil {
			logger.Warn("pdf: %s strategy failed: %v", s.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}

		ran = true
		last = text

		words := wordCount(text)
		logger.Debug("pdf: %s strategy produced %d words", s.name, words)
		if words > e.minWords {
			return text, nil
		}
	}

	if !ran {
		return "", fmt.Errorf("pdf: all extraction strategies failed: %w", errors.Join(errs...))
	}

	// Every tier came up short. Degraded, not fatal: hand back whatever
	// the last tier produced, possibly nothing.
	logger.Warn("pdf: extraction degraded for %s, best output has %d words", filepath.Base(path), wordCount(last))
	return last, nil
}

// extractFast parses embedded text objects in reading order.
func (e *Extractor) extractFast(ctx context.Context, path string) (string, error) {
	out, err := e.runner.Run(ctx, "pdftotext", path, "-")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// extractLayout re-renders pages preserving layout-derived ordering.
func (e *Extractor) extractLayout(ctx context.Context, path string) (string, error) {
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// extractOCR rasterises each page at 300 DPI and recognises it with
// tesseract, concatenating the per-page results.
func (e *Extractor) extractOCR(ctx context.Context, path string) (string, error) {
	dir, err := os.MkdirTemp("", "docquery-ocr-*")
	if err != nil {
		return "", fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	if _, err := e.runner.Run(ctx, "pdftoppm", "-r", ocrDPI, "-png", path, prefix); err != nil {
		return "", fmt.Errorf("rasterising: %w", err)
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return "", err
	}
	sort.Strings(pages)

	var sb strings.Builder
	for _, page := range pages {
		out, err := e.runner.Run(ctx, "tesseract", page, "stdout")
		if err != nil {
			return "", fmt.Errorf("recognising %s: %w", filepath.Base(page), err)
		}
		sb.Write(out)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String()), nil
}

// wordCount is the structural signal behind the sufficiency test.
func wordCount(text string) int {
	return len(strings.Fields(text))
}

// CheckAvailable verifies the text-extraction tool is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return fmt.Errorf("%w: %s", ErrPDFToolNotFound, InstallInstructions())
	}
	return nil
}

// CheckOCRAvailable verifies the OCR tools are installed. OCR is the last
// tier of the cascade; without it, scanned PDFs extract as empty.
func CheckOCRAvailable() error {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return fmt.Errorf("%w: %s", ErrOCRToolNotFound, InstallInstructions())
	}
	if _, err := exec.LookPath("tesseract"); err != nil {
		return fmt.Errorf("%w: %s", ErrOCRToolNotFound, InstallInstructions())
	}
	return nil
}

// InstallInstructions returns platform hints for the external tools.
func InstallInstructions() string {
	return "install poppler (pdftotext, pdftoppm) and tesseract: " +
		"macOS: brew install poppler tesseract; " +
		"Debian/Ubuntu: apt install poppler-utils tesseract-ocr"
}

// execRunner runs commands through os/exec.
type execRunner struct{}

// Run executes the command and returns stdout. Stderr is folded into the
// error for diagnosis.
func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
