package testutil

import (
	"testing"

	"scrapbook-go/internal/database"
	"scrapbook-go/internal/database/migrations"
	"scrapbook-go/internal/scrapbook"
)

// NewTestStore creates an in-memory SQLite store with migrations applied.
// It is closed when the test completes.
func NewTestStore(t *testing.T, clock scrapbook.Clock) *database.SQLiteStore {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := migrations.MigrateUp(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to migrate database: %v", err)
	}

	store := database.NewSQLiteStoreFromDB(sqlDB, clock)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
