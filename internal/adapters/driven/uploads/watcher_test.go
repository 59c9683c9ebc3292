package uploads

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery/internal/core/domain"
)

// recordingIngest records IngestFile calls.
type recordingIngest struct {
	calls []struct{ tenantID, path string }
}

func (r *recordingIngest) Ingest(_ context.Context, tenantID, filename string, _ io.Reader) (*domain.IngestResult, error) {
	return &domain.IngestResult{TenantID: tenantID, Filename: filename}, nil
}

func (r *recordingIngest) IngestFile(_ context.Context, tenantID, path string) (*domain.IngestResult, error) {
	r.calls = append(r.calls, struct{ tenantID, path string }{tenantID, path})
	return &domain.IngestResult{TenantID: tenantID, Filename: filepath.Base(path)}, nil
}

func (r *recordingIngest) History(context.Context, string) ([]domain.Ingestion, error) {
	return nil, nil
}

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	store := newTestStore(t)
	w, err := NewWatcher(store, &recordingIngest{})
	require.NoError(t, err)
	t.Cleanup(func() { w.watcher.Close() })
	return w
}

func TestTenantFor(t *testing.T) {
	w := newTestWatcher(t)
	root := w.store.Root()

	tests := []struct {
		name   string
		path   string
		tenant string
		ok     bool
	}{
		{"tenant file", filepath.Join(root, "acme", "report.pdf"), "acme", true},
		{"nested tenant file", filepath.Join(root, "acme", "sub", "report.pdf"), "acme", true},
		{"file in root has no tenant", filepath.Join(root, "stray.pdf"), "", false},
		{"path outside root", "/tmp/elsewhere/report.pdf", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant, ok := w.tenantFor(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.tenant, tenant)
		})
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"report.pdf", false},
		{".report.pdf.part", true},
		{filepath.Join("acme", ".tmp", "report.pdf"), true},
		{filepath.Join("acme", "report.pdf"), false},
		{".", false},
		{"..", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

func TestSchedule_ReplacesPendingTimer(t *testing.T) {
	w := newTestWatcher(t)
	ctx := context.Background()

	path := filepath.Join(w.store.Root(), "acme", "report.pdf")
	w.schedule(ctx, "acme", path)
	w.schedule(ctx, "acme", path)

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Len(t, w.pending, 1, "repeated writes must collapse into one pending ingestion")
}
