// Package sqlitetest opens migrated in-memory stores for tests.
package sqlitetest

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite"
)

// OpenDB returns a private in-memory database with the schema applied.
func OpenDB(t testing.TB) *database.SQLiteDB {
	t.Helper()

	ctx := context.Background()
	db, err := database.NewSQLiteDB(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := sqlite.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func NewStore(t testing.TB) repository.Store {
	return sqlite.NewStore(OpenDB(t))
}
