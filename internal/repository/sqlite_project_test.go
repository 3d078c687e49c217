package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrg(t *testing.T, database *sql.DB) *domain.Organization {
	t.Helper()
	org := testutil.NewTestOrganization("Acme")
	require.NoError(t, NewSQLiteOrganizationRepo(database).Create(context.Background(), org))
	return org
}

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := seedOrg(t, db)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	deadline := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	proj := testutil.NewTestProject(org.ID, "Website",
		testutil.WithCustomer("cust-1"),
		testutil.WithFixedDeadline(deadline),
		testutil.WithSchedule(testutil.Day(1, 2), testutil.Day(1, 5), nil),
	)
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, org.ID, fetched.OrganizationID)
	assert.Equal(t, "Website", fetched.Name)
	assert.Nil(t, fetched.ParentID)
	require.NotNil(t, fetched.CustomerID)
	assert.Equal(t, "cust-1", *fetched.CustomerID)
	require.NotNil(t, fetched.FixedDeadline)
	assert.Equal(t, "2025-09-30", fetched.FixedDeadline.Format("2006-01-02"))
	require.NotNil(t, fetched.AvailableDate)
	assert.True(t, testutil.Day(1, 2).Equal(*fetched.AvailableDate))
	require.NotNil(t, fetched.StartDate)
	assert.True(t, testutil.Day(1, 5).Equal(*fetched.StartDate))
	assert.Nil(t, fetched.EndDate)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_GetByShortID_CaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := seedOrg(t, db)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject(org.ID, "Mobile", testutil.WithShortID("MOB01"))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByShortID(ctx, org.ID, "mob01")
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)

	_, err = repo.GetByShortID(ctx, "other-org", "MOB01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_RootsAndChildren(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := seedOrg(t, db)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	root := testutil.NewTestProject(org.ID, "Root")
	require.NoError(t, repo.Create(ctx, root))
	other := testutil.NewTestProject(org.ID, "Other")
	require.NoError(t, repo.Create(ctx, other))
	for i := 0; i < 3; i++ {
		sub := testutil.NewTestProject(org.ID, fmt.Sprintf("Sub %d", i), testutil.WithParent(root.ID))
		require.NoError(t, repo.Create(ctx, sub))
	}

	roots, err := repo.ListRoots(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, roots, 2)

	children, err := repo.ListChildren(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	for _, c := range children {
		require.NotNil(t, c.ParentID)
		assert.Equal(t, root.ID, *c.ParentID)
	}

	n, err := repo.CountChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.CountChildren(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProjectRepo_ListPage_KeysetByKind(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := seedOrg(t, db)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	root := testutil.NewTestProject(org.ID, "Root")
	require.NoError(t, repo.Create(ctx, root))
	for i := 0; i < 5; i++ {
		sub := testutil.NewTestProject(org.ID, fmt.Sprintf("Sub %d", i), testutil.WithParent(root.ID))
		require.NoError(t, repo.Create(ctx, sub))
	}

	var seen []string
	after := ""
	for {
		page, err := repo.ListPage(ctx, org.ID, domain.NodeSubproject, after, 2)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, p := range page {
			assert.False(t, p.IsRoot())
			seen = append(seen, p.ID)
		}
		after = page[len(page)-1].ID
	}
	assert.Len(t, seen, 5)
	assert.IsIncreasing(t, seen)

	roots, err := repo.ListPage(ctx, org.ID, domain.NodeRoot, "", 10)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, root.ID, roots[0].ID)
}

func TestProjectRepo_UpdateAndUpdateSchedule(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := seedOrg(t, db)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	root := testutil.NewTestProject(org.ID, "Root")
	require.NoError(t, repo.Create(ctx, root))
	proj := testutil.NewTestProject(org.ID, "Before")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Name = "After"
	proj.ParentID = &root.ID
	proj.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, proj))

	proj.ApplySchedule(domain.ScheduleDates{End: testutil.Day(3, 1)}, time.Now().UTC())
	proj.Name = "ignored by UpdateSchedule"
	require.NoError(t, repo.UpdateSchedule(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", fetched.Name)
	require.NotNil(t, fetched.ParentID)
	assert.Equal(t, root.ID, *fetched.ParentID)
	require.NotNil(t, fetched.EndDate)
	assert.True(t, testutil.Day(3, 1).Equal(*fetched.EndDate))

	missing := testutil.NewTestProject(org.ID, "Ghost")
	assert.ErrorIs(t, repo.UpdateSchedule(ctx, missing), ErrNotFound)
}

func TestProjectRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := seedOrg(t, db)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject(org.ID, "Doomed")
	require.NoError(t, repo.Create(ctx, proj))
	require.NoError(t, repo.Delete(ctx, proj.ID))

	_, err := repo.GetByID(ctx, proj.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
