// Package uploads persists uploaded documents into a tenant-scoped
// directory tree and watches it for new arrivals.
//
// Layout: <root>/<tenant_id>/<filename>. One directory per tenant keeps
// listing cheap and makes cross-tenant access a path construction bug
// rather than a query bug.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
)

var _ driven.UploadStore = (*Store)(nil)

// Store is a filesystem-backed upload store.
type Store struct {
	root string
}

// NewStore creates an upload store rooted at dir.
// If dir is empty, defaults to ~/.docquery/uploads.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".docquery", "uploads")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}

	return &Store{root: dir}, nil
}

// Root returns the uploads root directory.
func (s *Store) Root() string {
	return s.root
}

// Save writes the stream under the tenant's directory and returns the
// path of the persisted file. Directory components in filename are
// discarded, so a crafted name cannot escape the tenant's directory.
func (s *Store) Save(tenantID, filename string, r io.Reader) (string, error) {
	if !domain.ValidTenantID(tenantID) {
		return "", fmt.Errorf("uploads: save without tenant: %w", domain.ErrInvalidInput)
	}

	base := filepath.Base(filepath.Clean(filename))
	if base == "." || base == string(filepath.Separator) || base == ".." {
		return "", fmt.Errorf("uploads: invalid filename %q: %w", filename, domain.ErrInvalidInput)
	}

	dir := filepath.Join(s.root, tenantID)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating tenant directory: %w", err)
	}

	path := filepath.Join(dir, base)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing upload: %w", err)
	}

	return path, nil
}

// Path returns the location a saved file would occupy.
func (s *Store) Path(tenantID, filename string) string {
	return filepath.Join(s.root, tenantID, filepath.Base(filepath.Clean(filename)))
}

// List returns the filenames stored for one tenant, sorted.
func (s *Store) List(tenantID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, tenantID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing uploads: %w", err)
	}

	var names []string //nolint:prealloc // directories are skipped
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
