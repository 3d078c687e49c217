package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/cadence/internal/importer"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string { return &s }

func websiteSchema() *importer.ImportSchema {
	return &importer.ImportSchema{
		Project: importer.ProjectImport{ShortID: "WEB01", Name: "Website"},
		Subprojects: []importer.SubprojectImport{
			{Ref: "checkout", ShortID: "WEB02", Name: "Checkout"},
		},
		Items: []importer.ItemImport{
			{Owner: "checkout", Name: "Cart", Start: ptrStr("2025-01-10"), End: ptrStr("2025-02-01")},
			{Name: "Launch plan", Available: ptrStr("2025-01-03"), End: ptrStr("2025-01-20")},
		},
	}
}

func TestImportService_CreatesConsistentHierarchy(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	res, err := s.imports.ImportProjectFromSchema(ctx, s.org.ID, websiteSchema())
	require.NoError(t, err)
	assert.Equal(t, 1, res.SubprojectCount)
	assert.Equal(t, 2, res.ProductCount)

	root := s.reload(t, res.Project)
	assertDay(t, day(1, 3), root.AvailableDate, "available")
	assertDay(t, day(1, 10), root.StartDate, "start")
	assertDay(t, day(2, 1), root.EndDate, "end")

	sub, err := s.projects.GetByShortID(ctx, s.org.ID, "WEB02")
	require.NoError(t, err)
	assert.Equal(t, root.ID, *sub.ParentID)
	assertDay(t, day(2, 1), sub.EndDate, "subproject end")

	s.assertMatchesBulk(t)

	ev, ok := s.observer.last("import-project")
	require.True(t, ok)
	assert.True(t, ev.Success)
	assert.Equal(t, 2, ev.Fields["products"])
}

func TestImportService_ThenIncrementalUpdates(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	res, err := s.imports.ImportProjectFromSchema(ctx, s.org.ID, websiteSchema())
	require.NoError(t, err)

	items, err := s.products.ListByProject(ctx, res.Project.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	reopened := items[0].Schedule()
	reopened.End = nil
	_, err = s.products.UpdateDates(ctx, items[0].ID, reopened)
	require.NoError(t, err)
	assert.Nil(t, s.reload(t, res.Project).EndDate)
	s.assertMatchesBulk(t)
}

func TestImportService_ValidationErrors(t *testing.T) {
	s := setupServices(t)
	schema := websiteSchema()
	schema.Items[0].Owner = "nope"

	_, err := s.imports.ImportProjectFromSchema(context.Background(), s.org.ID, schema)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), `items[0].owner: unknown subproject ref "nope"`)

	roots, err := s.projects.ListRoots(context.Background(), s.org.ID)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestImportService_UnknownOrganization(t *testing.T) {
	s := setupServices(t)

	_, err := s.imports.ImportProjectFromSchema(context.Background(), "missing", websiteSchema())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestImportService_DuplicateShortIDRollsBack(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	existing := s.root(t, "Existing")
	existing.ShortID = "WEB02"
	require.NoError(t, s.projects.Update(ctx, existing))

	_, err := s.imports.ImportProjectFromSchema(ctx, s.org.ID, websiteSchema())
	require.Error(t, err)

	_, err = s.projects.GetByShortID(ctx, s.org.ID, "WEB01")
	assert.ErrorIs(t, err, repository.ErrNotFound, "the root insert rolled back with the failing subproject")
}

func TestImportService_FromFile(t *testing.T) {
	s := setupServices(t)
	path := filepath.Join(t.TempDir(), "web.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
project:
  short_id: WEB01
  name: Website
items:
  - name: Landing page
    end: "2025-02-01"
`), 0644))

	res, err := s.imports.ImportProject(context.Background(), s.org.ID, path)
	require.NoError(t, err)
	assertDay(t, testutil.Day(2, 1), s.reload(t, res.Project).EndDate, "end")

	_, err = s.imports.ImportProject(context.Background(), s.org.ID, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
