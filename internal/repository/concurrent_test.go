package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	database, err := db.OpenDB(filepath.Join(dir, "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ChildReadsDuringWrites verifies that schedule store
// reads see consistent rows while products are being written.
func TestConcurrentAccess_ChildReadsDuringWrites(t *testing.T) {
	database := newConcurrentTestDB(t)
	org := seedOrg(t, database)
	ctx := context.Background()

	projects := NewSQLiteProjectRepo(database)
	products := NewSQLiteProductRepo(database)
	store := NewSQLiteScheduleStore(database)

	root := testutil.NewTestProject(org.ID, "Root")
	require.NoError(t, projects.Create(ctx, root))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			item := testutil.NewTestProduct(root.ID, fmt.Sprintf("Item-%d", i),
				testutil.WithDates(testutil.Day(1, 1+i), nil, nil))
			if err := products.Create(ctx, item); err != nil {
				t.Errorf("writer: create product %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				children, err := store.LoadChildren(ctx, root)
				if err != nil {
					t.Errorf("reader %d: load children: %v", reader, err)
					return
				}
				for _, c := range children {
					if c.Available == nil {
						t.Errorf("reader %d: got half-written child", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	children, err := store.LoadChildren(ctx, root)
	require.NoError(t, err)
	assert.Len(t, children, 20)
}
