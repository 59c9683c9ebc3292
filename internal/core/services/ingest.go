package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// defaultEmbedRate limits embedding calls per second. Cloud embedding
// APIs throttle aggressively; a modest client-side cap avoids burning a
// whole ingestion on a 429.
const defaultEmbedRate = 5

// IngestService runs the document-to-retrieval pipeline.
type IngestService struct {
	extractor driven.TextExtractor
	pipeline  driven.PostProcessorPipeline
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	catalog   driven.IngestionCatalog
	uploads   driven.UploadStore

	onEmbedError string
	limiter      *rate.Limiter
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithEmbedErrorPolicy selects what happens when a chunk fails to embed:
// domain.EmbedErrorAbort fails the whole ingestion, domain.EmbedErrorSkip
// drops the chunk and reports it in the result.
func WithEmbedErrorPolicy(policy string) IngestOption {
	return func(s *IngestService) {
		if policy == domain.EmbedErrorAbort || policy == domain.EmbedErrorSkip {
			s.onEmbedError = policy
		}
	}
}

// WithEmbedRate caps embedding calls per second.
func WithEmbedRate(perSecond float64) IngestOption {
	return func(s *IngestService) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	extractor driven.TextExtractor,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	catalog driven.IngestionCatalog,
	uploads driven.UploadStore,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		extractor:    extractor,
		pipeline:     pipeline,
		embedder:     embedder,
		store:        store,
		catalog:      catalog,
		uploads:      uploads,
		onEmbedError: domain.EmbedErrorAbort,
		limiter:      rate.NewLimiter(rate.Limit(defaultEmbedRate), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest persists the uploaded stream into the tenant's upload area and
// runs the full pipeline over it.
func (s *IngestService) Ingest(ctx context.Context, tenantID, filename string, r io.Reader) (*domain.IngestResult, error) {
	if !domain.ValidTenantID(tenantID) {
		return nil, fmt.Errorf("ingest: missing tenant: %w", domain.ErrInvalidInput)
	}

	path, err := s.uploads.Save(tenantID, filename, r)
	if err != nil {
		return nil, fmt.Errorf("ingest: saving upload %s for tenant %s: %w", filename, tenantID, err)
	}

	return s.IngestFile(ctx, tenantID, path)
}

// IngestFile runs the pipeline over a file already present in the
// tenant's upload area.
func (s *IngestService) IngestFile(ctx context.Context, tenantID, path string) (*domain.IngestResult, error) {
	if !domain.ValidTenantID(tenantID) {
		return nil, fmt.Errorf("ingest: missing tenant: %w", domain.ErrInvalidInput)
	}
	filename := filepath.Base(path)

	logger.Section("Ingestion")
	logger.Info("ingest: %s for tenant %s", filename, tenantID)

	ing := &domain.Ingestion{
		ID:       uuid.New().String(),
		TenantID: tenantID,
		Filename: filename,
	}
	if err := s.catalog.Create(ctx, ing); err != nil {
		return nil, fmt.Errorf("ingest: recording %s for tenant %s: %w", filename, tenantID, err)
	}

	result, err := s.run(ctx, ing, path)
	if err != nil {
		if markErr := s.catalog.MarkFailed(ctx, ing.ID); markErr != nil {
			logger.Warn("ingest: marking %s failed: %v", ing.ID, markErr)
		}
		return nil, err
	}

	if err := s.catalog.MarkComplete(ctx, ing.ID, result.ChunkCount); err != nil {
		return nil, fmt.Errorf("ingest: completing %s for tenant %s: %w", filename, tenantID, err)
	}
	result.Status = domain.IngestStatusComplete
	return result, nil
}

// run executes the extract-normalise-chunk-embed-store pipeline.
func (s *IngestService) run(ctx context.Context, ing *domain.Ingestion, path string) (*domain.IngestResult, error) {
	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ingest: extracting %s for tenant %s: %w", ing.Filename, ing.TenantID, err)
	}

	doc := &domain.Document{
		ID:        ing.ID,
		TenantID:  ing.TenantID,
		Filename:  ing.Filename,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("ingest: processing %s for tenant %s: %w", ing.Filename, ing.TenantID, err)
	}
	logger.Debug("ingest: %s produced %d chunks", ing.Filename, len(chunks))

	records, skipped, err := s.embedChunks(ctx, ing, chunks)
	if err != nil {
		return nil, err
	}

	if len(records) > 0 {
		if err := s.store.Upsert(ctx, records); err != nil {
			return nil, fmt.Errorf("ingest: storing %d chunks of %s for tenant %s: %w",
				len(records), ing.Filename, ing.TenantID, err)
		}
	}

	return &domain.IngestResult{
		Filename:      ing.Filename,
		TenantID:      ing.TenantID,
		ChunkCount:    len(records),
		SkippedChunks: skipped,
	}, nil
}

// embedChunks embeds each chunk under the rate cap, applying the
// configured failure policy.
func (s *IngestService) embedChunks(ctx context.Context, ing *domain.Ingestion, chunks []domain.Chunk) ([]domain.Record, int, error) {
	records := make([]domain.Record, 0, len(chunks))
	skipped := 0

	for i, chunk := range chunks {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("ingest: %s for tenant %s: %w", ing.Filename, ing.TenantID, err)
		}

		vector, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			if s.onEmbedError == domain.EmbedErrorSkip && !errors.Is(err, context.Canceled) {
				logger.Warn("ingest: skipping chunk %d of %s: %v", i, ing.Filename, err)
				skipped++
				continue
			}
			return nil, 0, fmt.Errorf("ingest: embedding chunk %d of %s for tenant %s: %w: %w",
				i, ing.Filename, ing.TenantID, domain.ErrEmbeddingUnavailable, err)
		}

		records = append(records, domain.Record{
			Vector:   vector,
			Text:     chunk.Content,
			Source:   ing.Filename,
			TenantID: ing.TenantID,
		})
	}

	return records, skipped, nil
}

// History returns the ingestion catalog rows for one tenant.
func (s *IngestService) History(ctx context.Context, tenantID string) ([]domain.Ingestion, error) {
	if !domain.ValidTenantID(tenantID) {
		return nil, fmt.Errorf("ingest: missing tenant: %w", domain.ErrInvalidInput)
	}
	return s.catalog.ListByTenant(ctx, tenantID)
}
