package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

func newTestIngestService(
	extractor *mockExtractor,
	embedder *mockEmbedder,
	store *mockVectorStore,
	catalog *mockCatalog,
	opts ...IngestOption,
) *IngestService {
	return NewIngestService(extractor, &mockPipeline{}, embedder, store, catalog, newMockUploads(), opts...)
}

func TestIngestService_Ingest(t *testing.T) {
	extractor := &mockExtractor{text: "first paragraph\n\nsecond paragraph"}
	embedder := &mockEmbedder{}
	store := &mockVectorStore{}
	catalog := newMockCatalog()
	uploads := newMockUploads()
	svc := NewIngestService(extractor, &mockPipeline{}, embedder, store, catalog, uploads)

	result, err := svc.Ingest(context.Background(), "tenant-a", "report.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, domain.IngestStatusComplete, result.Status)
	assert.Equal(t, "report.pdf", result.Filename)
	assert.Equal(t, "tenant-a", result.TenantID)
	assert.Equal(t, 2, result.ChunkCount)
	assert.Equal(t, 0, result.SkippedChunks)

	// The upload is persisted before extraction runs.
	assert.Equal(t, "%PDF-1.4", uploads.saved["/uploads/tenant-a/report.pdf"])

	// Every chunk reaches the vector store with the tenant attached.
	require.Len(t, store.upserted, 1)
	for _, rec := range store.upserted[0] {
		assert.Equal(t, "tenant-a", rec.TenantID)
		assert.Equal(t, "report.pdf", rec.Source)
	}
}

func TestIngestService_Ingest_RequiresTenant(t *testing.T) {
	svc := newTestIngestService(&mockExtractor{text: "text"}, &mockEmbedder{}, &mockVectorStore{}, newMockCatalog())

	_, err := svc.Ingest(context.Background(), "  ", "report.pdf", strings.NewReader("data"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.IngestFile(context.Background(), "", "/uploads/x/report.pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestService_CatalogLifecycle(t *testing.T) {
	catalog := newMockCatalog()
	svc := newTestIngestService(&mockExtractor{text: "a\n\nb\n\nc"}, &mockEmbedder{}, &mockVectorStore{}, catalog)

	_, err := svc.IngestFile(context.Background(), "tenant-a", "/uploads/tenant-a/doc.pdf")
	require.NoError(t, err)

	ing := catalog.single()
	require.NotNil(t, ing)
	assert.Equal(t, domain.IngestStatusComplete, ing.Status)
	assert.Equal(t, 3, ing.ChunkCount)
	assert.Equal(t, "doc.pdf", ing.Filename)
}

func TestIngestService_ExtractionFailureMarksFailed(t *testing.T) {
	catalog := newMockCatalog()
	svc := newTestIngestService(&mockExtractor{err: errors.New("pdftotext exited 1")}, &mockEmbedder{}, &mockVectorStore{}, catalog)

	_, err := svc.IngestFile(context.Background(), "tenant-a", "/uploads/tenant-a/broken.pdf")
	require.Error(t, err)

	ing := catalog.single()
	require.NotNil(t, ing)
	assert.Equal(t, domain.IngestStatusFailed, ing.Status)
}

func TestIngestService_UpsertFailureMarksFailed(t *testing.T) {
	catalog := newMockCatalog()
	store := &mockVectorStore{upsertErr: errors.New("connection refused")}
	svc := newTestIngestService(&mockExtractor{text: "some text"}, &mockEmbedder{}, store, catalog)

	_, err := svc.IngestFile(context.Background(), "tenant-a", "/uploads/tenant-a/doc.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storing")

	assert.Equal(t, domain.IngestStatusFailed, catalog.single().Status)
}

func TestIngestService_EmbedAbortPolicy(t *testing.T) {
	catalog := newMockCatalog()
	embedder := &mockEmbedder{failOn: map[string]bool{"bad chunk": true}}
	store := &mockVectorStore{}
	svc := newTestIngestService(
		&mockExtractor{text: "good chunk\n\nbad chunk\n\nlater chunk"},
		embedder, store, catalog,
		WithEmbedErrorPolicy(domain.EmbedErrorAbort),
	)

	_, err := svc.IngestFile(context.Background(), "tenant-a", "/uploads/tenant-a/doc.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Contains(t, err.Error(), "chunk 1")
	assert.Contains(t, err.Error(), "doc.pdf")

	// Nothing reaches the store and the catalog records the failure.
	assert.Empty(t, store.upserted)
	assert.Equal(t, domain.IngestStatusFailed, catalog.single().Status)
}

func TestIngestService_EmbedSkipPolicy(t *testing.T) {
	catalog := newMockCatalog()
	embedder := &mockEmbedder{failOn: map[string]bool{"bad chunk": true}}
	store := &mockVectorStore{}
	svc := newTestIngestService(
		&mockExtractor{text: "good chunk\n\nbad chunk\n\nlater chunk"},
		embedder, store, catalog,
		WithEmbedErrorPolicy(domain.EmbedErrorSkip),
	)

	result, err := svc.IngestFile(context.Background(), "tenant-a", "/uploads/tenant-a/doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, 2, result.ChunkCount)
	assert.Equal(t, 1, result.SkippedChunks)
	assert.Equal(t, domain.IngestStatusComplete, result.Status)

	require.Len(t, store.upserted, 1)
	require.Len(t, store.upserted[0], 2)
	assert.Equal(t, "good chunk", store.upserted[0][0].Text)
	assert.Equal(t, "later chunk", store.upserted[0][1].Text)

	assert.Equal(t, 2, catalog.single().ChunkCount)
}

func TestIngestService_InvalidPolicyKeepsDefault(t *testing.T) {
	svc := newTestIngestService(&mockExtractor{}, &mockEmbedder{}, &mockVectorStore{}, newMockCatalog(),
		WithEmbedErrorPolicy("retry-forever"))

	assert.Equal(t, domain.EmbedErrorAbort, svc.onEmbedError)
}

func TestIngestService_EmptyDocumentSkipsUpsert(t *testing.T) {
	catalog := newMockCatalog()
	store := &mockVectorStore{}
	svc := newTestIngestService(&mockExtractor{text: ""}, &mockEmbedder{}, store, catalog)

	result, err := svc.IngestFile(context.Background(), "tenant-a", "/uploads/tenant-a/scan.pdf")
	require.NoError(t, err)

	// Zero chunks completes cleanly without touching the store.
	assert.Equal(t, 0, result.ChunkCount)
	assert.Empty(t, store.upserted)
	assert.Equal(t, domain.IngestStatusComplete, catalog.single().Status)
}

func TestIngestService_History(t *testing.T) {
	catalog := newMockCatalog()
	svc := newTestIngestService(&mockExtractor{text: "text"}, &mockEmbedder{}, &mockVectorStore{}, catalog)

	_, err := svc.IngestFile(context.Background(), "tenant-a", "/uploads/tenant-a/one.pdf")
	require.NoError(t, err)
	_, err = svc.IngestFile(context.Background(), "tenant-b", "/uploads/tenant-b/two.pdf")
	require.NoError(t, err)

	rows, err := svc.History(context.Background(), "tenant-a")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "one.pdf", rows[0].Filename)

	_, err = svc.History(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
