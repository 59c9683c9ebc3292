package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
)

// mockExtractor returns canned text.
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Extract(context.Context, string) (string, error) {
	return m.text, m.err
}

func (m *mockExtractor) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// mockPipeline splits the content on blank lines into chunks.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	var chunks []domain.Chunk
	for i, part := range strings.Split(doc.Content, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			TenantID: doc.TenantID,
			Source:   doc.Filename,
			Content:  part,
			Position: i,
		})
	}
	return chunks, nil
}

// mockEmbedder embeds everything as a fixed-size vector. Inputs listed
// in failOn return an error instead.
type mockEmbedder struct {
	dims   int
	failOn map[string]bool
	calls  []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls = append(m.calls, text)
	if m.failOn[text] {
		return nil, errors.New("embedding backend down")
	}
	dims := m.dims
	if dims == 0 {
		dims = 4
	}
	return make([]float32, dims), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int  { return 4 }
func (m *mockEmbedder) ModelName() string { return "mock-embedder" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error     { return nil }

// mockVectorStore records upserts and plays back canned search results.
type mockVectorStore struct {
	upserted  [][]domain.Record
	upsertErr error

	searchResults []domain.SearchResult
	searchErr     error
	searches      []struct {
		tenantID string
		k        int
	}
}

func (m *mockVectorStore) EnsureCollection(context.Context) error { return nil }

func (m *mockVectorStore) Upsert(_ context.Context, records []domain.Record) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, records)
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, _ []float32, tenantID string, k int) ([]domain.SearchResult, error) {
	m.searches = append(m.searches, struct {
		tenantID string
		k        int
	}{tenantID, k})
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults, nil
}

func (m *mockVectorStore) Close() error { return nil }

// mockCatalog is an in-memory ingestion catalog.
type mockCatalog struct {
	rows      map[string]*domain.Ingestion
	createErr error
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{rows: make(map[string]*domain.Ingestion)}
}

func (m *mockCatalog) Create(_ context.Context, ing *domain.Ingestion) error {
	if m.createErr != nil {
		return m.createErr
	}
	ing.Status = domain.IngestStatusPending
	m.rows[ing.ID] = ing
	return nil
}

func (m *mockCatalog) MarkComplete(_ context.Context, id string, chunkCount int) error {
	ing, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	ing.Status = domain.IngestStatusComplete
	ing.ChunkCount = chunkCount
	return nil
}

func (m *mockCatalog) MarkFailed(_ context.Context, id string) error {
	ing, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	ing.Status = domain.IngestStatusFailed
	return nil
}

func (m *mockCatalog) Get(_ context.Context, id string) (*domain.Ingestion, error) {
	ing, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ing, nil
}

func (m *mockCatalog) ListByTenant(_ context.Context, tenantID string) ([]domain.Ingestion, error) {
	var out []domain.Ingestion
	for _, ing := range m.rows {
		if ing.TenantID == tenantID {
			out = append(out, *ing)
		}
	}
	return out, nil
}

func (m *mockCatalog) Close() error { return nil }

// single returns the only row in the catalog.
func (m *mockCatalog) single() *domain.Ingestion {
	for _, ing := range m.rows {
		return ing
	}
	return nil
}

// mockUploads pretends to persist uploads.
type mockUploads struct {
	saved map[string]string
}

func newMockUploads() *mockUploads {
	return &mockUploads{saved: make(map[string]string)}
}

func (m *mockUploads) Save(tenantID, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "/uploads/" + tenantID + "/" + filename
	m.saved[path] = string(data)
	return path, nil
}

func (m *mockUploads) Path(tenantID, filename string) string {
	return "/uploads/" + tenantID + "/" + filename
}

func (m *mockUploads) List(string) ([]string, error) { return nil, nil }

// mockLLM plays back a canned completion.
type mockLLM struct {
	response string
	err      error
	prompts  []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error   { return nil }
func (m *mockLLM) Close() error                 { return nil }
