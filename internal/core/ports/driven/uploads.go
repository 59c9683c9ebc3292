package driven

import "io"

// UploadStore persists uploaded document bytes into a tenant-scoped area
// before extraction begins. The backing layout (one directory per tenant)
// is an implementation detail; the contract is only that one tenant's
// files are never visible under another tenant's namespace.
type UploadStore interface {
	// Save writes the stream under the tenant's namespace and returns the
	// path of the persisted file. The filename is reduced to its base
	// name; directory components in it are discarded.
	Save(tenantID, filename string, r io.Reader) (string, error)

	// Path returns the location a saved file would occupy.
	Path(tenantID, filename string) string

	// List returns the filenames stored for one tenant.
	List(tenantID string) ([]string, error)
}
