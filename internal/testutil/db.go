// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"testing"

	"go-asset-ledger/internal/model"
	"go-asset-ledger/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// OpenDB returns a migrated in-memory SQLite store closed at test cleanup.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Options{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, model.All()...))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
