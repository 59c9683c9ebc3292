package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docquery/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docquery/internal/core/domain"
	"github.com/custodia-labs/docquery/internal/core/ports/driven"
)

var _ driven.IngestionCatalog = (*Store)(nil)

// Store is a SQLite-backed ingestion catalog. The catalog holds only
// metadata; chunk vectors live in the vector index.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store under the given data directory.
// If dataDir is empty, defaults to ~/.docquery/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docquery", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	// WAL mode for better concurrency between the watcher and the CLI.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_ingestions.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Create inserts a new ingestion row in the pending state.
func (s *Store) Create(ctx context.Context, ing *domain.Ingestion) error {
	if ing.ID == "" || !domain.ValidTenantID(ing.TenantID) {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	if ing.CreatedAt.IsZero() {
		ing.CreatedAt = now
	}
	ing.UpdatedAt = now
	if ing.Status == "" {
		ing.Status = domain.IngestStatusPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestions (id, tenant_id, filename, chunk_count, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ing.ID, ing.TenantID, ing.Filename, ing.ChunkCount, string(ing.Status),
		ing.CreatedAt, ing.UpdatedAt)

	if err != nil {
		return fmt.Errorf("creating ingestion: %w", err)
	}
	return nil
}

// MarkComplete records a finished ingestion and its chunk count.
func (s *Store) MarkComplete(ctx context.Context, id string, chunkCount int) error {
	return s.setStatus(ctx, id, domain.IngestStatusComplete, chunkCount)
}

// MarkFailed records a failed ingestion.
func (s *Store) MarkFailed(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, domain.IngestStatusFailed, 0)
}

// setStatus moves an ingestion to a terminal state.
func (s *Store) setStatus(ctx context.Context, id string, status domain.IngestStatus, chunkCount int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ingestions SET status = ?, chunk_count = ?, updated_at = ?
		WHERE id = ?
	`, string(status), chunkCount, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating ingestion %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of ingestion %s: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get returns one ingestion by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Ingestion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, filename, chunk_count, status, created_at, updated_at
		FROM ingestions WHERE id = ?
	`, id)

	ing, err := scanIngestion(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return ing, err
}

// ListByTenant returns all ingestions for one tenant, newest first.
func (s *Store) ListByTenant(ctx context.Context, tenantID string) ([]domain.Ingestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, filename, chunk_count, status, created_at, updated_at
		FROM ingestions WHERE tenant_id = ?
		ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying ingestions: %w", err)
	}
	defer rows.Close()

	var ingestions []domain.Ingestion //nolint:prealloc // size unknown from query
	for rows.Next() {
		ing, err := scanIngestion(rows.Scan)
		if err != nil {
			return nil, err
		}
		ingestions = append(ingestions, *ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingestions: %w", err)
	}

	return ingestions, nil
}

// scanIngestion scans one ingestion row via the given Scan function.
func scanIngestion(scan func(...any) error) (*domain.Ingestion, error) {
	var ing domain.Ingestion
	var status string
	var createdAt, updatedAt sql.NullTime

	if err := scan(&ing.ID, &ing.TenantID, &ing.Filename, &ing.ChunkCount,
		&status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning ingestion: %w", err)
	}

	ing.Status = domain.IngestStatus(status)
	if createdAt.Valid {
		ing.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		ing.UpdatedAt = updatedAt.Time
	}
	return &ing, nil
}
