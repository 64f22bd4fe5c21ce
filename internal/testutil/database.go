// Package testutil provides test helpers for storage-backed tests.
package testutil

import (
	"context"
	"testing"

	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite database with cleanup
// registered on the test.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedCategories inserts the given category names as active expense
// categories.
func SeedCategories(t *testing.T, store *storage.SQLiteStorage, names ...string) {
	t.Helper()

	ctx := context.Background()
	for _, name := range names {
		if _, err := store.CreateCategory(ctx, name, "", model.CategoryTypeExpense); err != nil {
			t.Fatalf("failed to seed category %q: %v", name, err)
		}
	}
}
