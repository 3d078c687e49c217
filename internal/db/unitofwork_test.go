package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertOrg(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO organizations (id, name, created_at) VALUES (?, ?, ?)`,
		id, "Org "+id, "2025-01-01T00:00:00Z")
	return err
}

func orgExists(uow *db.SQLiteUnitOfWork, id string) bool {
	var found bool
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		var got string
		if err := tx.QueryRowContext(ctx, `SELECT id FROM organizations WHERE id = ?`, id).Scan(&got); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertOrg(ctx, tx, "o1")
	})
	require.NoError(t, err)
	assert.True(t, orgExists(uow, "o1"), "row should exist after commit")
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertOrg(ctx, tx, "o2"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.False(t, orgExists(uow, "o2"), "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertOrg(ctx, tx, "o3")
			panic("boom")
		})
	})
	assert.False(t, orgExists(uow, "o3"), "row should not exist after panic rollback")
}
