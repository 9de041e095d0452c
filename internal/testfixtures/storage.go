package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/property-dashboard/internal/storage"
)

// StorageHarness provides a key-value store backed by a temporary SQLite file
// for integration-style persistence tests.
type StorageHarness struct {
	Store *storage.SQLiteStore

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *StorageHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewStorageHarness constructs a StorageHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewStorageHarness(tb testing.TB) *StorageHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "dashboard.db")

	store, err := storage.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &StorageHarness{
		Store: store,
		cleanup: func() {
			_ = store.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
