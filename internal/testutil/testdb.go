package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens an in-memory database with the cadence schema. It is
// pinned to one connection, so transactions from concurrent goroutines
// queue behind each other.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return open(t, ":memory:")
}

// NewTestFileDB opens a database file under t.TempDir() with the driver's
// normal connection pool, so concurrent mutations run on separate
// connections in WAL mode as they do in a deployment.
func NewTestFileDB(t *testing.T) *sql.DB {
	t.Helper()
	return open(t, filepath.Join(t.TempDir(), "cadence.db"))
}

func open(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening test database %s", path)
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
