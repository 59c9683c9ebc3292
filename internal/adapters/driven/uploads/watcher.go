package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docquery/internal/core/ports/driving"
	"github.com/custodia-labs/docquery/internal/logger"
)

// settleDelay is how long a file must be quiet before it is ingested.
// Copies into the watched tree arrive as a Create followed by a burst of
// Writes; ingesting on the first event would read a partial file.
const settleDelay = 2 * time.Second

// Watcher ingests files dropped into the upload tree. The first path
// component below the root names the tenant, so <root>/acme/report.pdf is
// ingested for tenant "acme".
type Watcher struct {
	store   *Store
	ingest  driving.IngestService
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher over the store's upload tree.
func NewWatcher(store *Store, ingest driving.IngestService) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("uploads: creating watcher: %w", err)
	}

	return &Watcher{
		store:   store,
		ingest:  ingest,
		watcher: fw,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Run watches the upload tree until the context is cancelled.
// Existing tenant directories are watched immediately; directories
// created later are picked up from their create events.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(w.store.Root()); err != nil {
		return fmt.Errorf("uploads: watching %s: %w", w.store.Root(), err)
	}

	entries, err := os.ReadDir(w.store.Root())
	if err != nil {
		return fmt.Errorf("uploads: reading upload root: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(w.store.Root(), entry.Name())
		if err := w.watcher.Add(dir); err != nil {
			logger.Warn("uploads: cannot watch %s: %v", dir, err)
		}
	}

	logger.Info("uploads: watching %s", w.store.Root())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("uploads: watch error: %v", err)
		}
	}
}

// handleEvent reacts to one filesystem event.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if isHidden(event.Name) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	// A new tenant directory: start watching it.
	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if err := w.watcher.Add(event.Name); err != nil {
				logger.Warn("uploads: cannot watch %s: %v", event.Name, err)
			}
		}
		return
	}

	tenantID, ok := w.tenantFor(event.Name)
	if !ok {
		return
	}

	w.schedule(ctx, tenantID, event.Name)
}

// schedule (re)arms the settle timer for one file. Each further write
// pushes ingestion back until the file has been quiet for settleDelay.
func (w *Watcher) schedule(ctx context.Context, tenantID, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}

	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}

		logger.Info("uploads: ingesting %s for tenant %s", filepath.Base(path), tenantID)
		if _, err := w.ingest.IngestFile(ctx, tenantID, path); err != nil {
			logger.Warn("uploads: ingesting %s: %v", path, err)
		}
	})
}

// tenantFor derives the tenant from the path's first component below the
// upload root. Files sitting directly in the root have no tenant and are
// ignored.
func (w *Watcher) tenantFor(path string) (string, bool) {
	rel, err := filepath.Rel(w.store.Root(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}

	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) < 2 {
		return "", false
	}
	return parts[0], true
}

// isHidden reports whether any path component starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
