package testutil

import (
	"testing"

	"diskbot/internal/store"
)

// NewTestStore creates a new in-memory SQLite store with schema applied.
// The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	sqlDB, err := store.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if _, err := sqlDB.Exec(store.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	st := store.NewSQLiteStoreFromDB(sqlDB)

	t.Cleanup(func() {
		st.Close()
	})

	return st
}
