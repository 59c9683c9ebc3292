package cli

import (
	"context"
	"errors"
	"io"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// mockIngestService records calls and returns canned results.
type mockIngestService struct {
	result  *domain.IngestResult
	history []domain.Ingestion
	err     error

	ingestedTenant   string
	ingestedFilename string
}

func (m *mockIngestService) Ingest(_ context.Context, tenantID, filename string, r io.Reader) (*domain.IngestResult, error) {
	m.ingestedTenant = tenantID
	m.ingestedFilename = filename
	_, _ = io.Copy(io.Discard, r)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockIngestService) IngestFile(_ context.Context, tenantID, path string) (*domain.IngestResult, error) {
	m.ingestedTenant = tenantID
	m.ingestedFilename = path
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockIngestService) History(_ context.Context, tenantID string) ([]domain.Ingestion, error) {
	m.ingestedTenant = tenantID
	if m.err != nil {
		return nil, m.err
	}
	return m.history, nil
}

// mockAnswerService returns a canned answer.
type mockAnswerService struct {
	answer *domain.Answer
	err    error

	question string
	tenantID string
	k        int
}

func (m *mockAnswerService) Answer(_ context.Context, question, tenantID string, k int) (*domain.Answer, error) {
	m.question = question
	m.tenantID = tenantID
	m.k = k
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// mockSettingsService returns canned settings.
type mockSettingsService struct {
	settings *domain.AppSettings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings == nil {
		return nil, errors.New("no settings")
	}
	return m.settings, nil
}

func (m *mockSettingsService) Save(*domain.AppSettings) error { return nil }

// mockWatchRunner returns as soon as the context is cancelled.
type mockWatchRunner struct {
	err error
}

func (m *mockWatchRunner) Run(ctx context.Context) error {
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous ones.
func setupTestServices() func() {
	oldIngest := ingestService
	oldAnswer := answerService
	oldSettings := settingsService
	oldWatcher := uploadWatcher
	oldTenant := tenantID

	defaults := domain.DefaultAppSettings()
	ingestService = &mockIngestService{
		result: &domain.IngestResult{
			Status:     domain.IngestStatusComplete,
			Filename:   "report.pdf",
			TenantID:   "tenant-a",
			ChunkCount: 3,
		},
	}
	answerService = &mockAnswerService{
		answer: &domain.Answer{
			Text:     "The warranty lasts two years.",
			Sources:  []string{"warranty.pdf"},
			TenantID: "tenant-a",
		},
	}
	settingsService = &mockSettingsService{settings: &defaults}
	uploadWatcher = &mockWatchRunner{}
	tenantID = "tenant-a"

	return func() {
		ingestService = oldIngest
		answerService = oldAnswer
		settingsService = oldSettings
		uploadWatcher = oldWatcher
		tenantID = oldTenant
	}
}
