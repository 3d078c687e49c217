package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrStr(s string) *string { return &s }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{ShortID: "WEB01", Name: "Website"},
		Items: []ItemImport{
			{Name: "Landing page", End: ptrStr("2025-02-01")},
		},
	}
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	errs := ValidateImportSchema(validMinimalSchema())
	assert.Empty(t, errs)
}

func TestValidateImportSchema_ValidFull(t *testing.T) {
	schema := &ImportSchema{
		Project: ProjectImport{ShortID: "web01", Name: "Website", Deadline: ptrStr("2025-06-30")},
		Subprojects: []SubprojectImport{
			{Ref: "checkout", ShortID: "WEB02", Name: "Checkout"},
			{Ref: "search", Name: "Search", Deadline: ptrStr("2025-05-01")},
		},
		Items: []ItemImport{
			{Owner: "checkout", Name: "Cart", Available: ptrStr("2025-01-05"), Start: ptrStr("2025-01-10")},
			{Owner: "search", Name: "Index", End: ptrStr("2025-03-01")},
			{Name: "Launch plan"},
		},
	}
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestValidateImportSchema_CollectsAllErrors(t *testing.T) {
	schema := &ImportSchema{
		Project: ProjectImport{ShortID: "W1"},
		Subprojects: []SubprojectImport{
			{Ref: "a", Name: "A", ShortID: "ABC01"},
			{Ref: "a", Name: "", ShortID: "ABC01"},
			{Name: "No ref", Deadline: ptrStr("soon")},
		},
		Items: []ItemImport{
			{Owner: "missing", Name: "Orphan"},
			{Name: "Bad date", Start: ptrStr("2025-13-01")},
			{Name: " "},
		},
	}

	errs := ValidateImportSchema(schema)
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}

	assert.Contains(t, msgs, "project.name is required")
	assert.Contains(t, msgs, `subprojects[1].ref: duplicate ref "a"`)
	assert.Contains(t, msgs, "subprojects[1].name is required")
	assert.Contains(t, msgs, "subprojects[2].ref is required")
	assert.Contains(t, msgs, `subprojects[2].deadline: invalid date format "soon" (expected YYYY-MM-DD)`)
	assert.Contains(t, msgs, `items[0].owner: unknown subproject ref "missing"`)
	assert.Contains(t, msgs, `items[1].start: invalid date format "2025-13-01" (expected YYYY-MM-DD)`)
	assert.Contains(t, msgs, "items[2].name is required")
	assert.Contains(t, msgs, `subprojects[1].short_id: short ID "ABC01" already used by subprojects[0].short_id`)
	assert.Len(t, errs, 10, "the malformed project short ID is reported too")
}

func TestValidateImportSchema_ProjectShortIDRequired(t *testing.T) {
	schema := validMinimalSchema()
	schema.Project.ShortID = ""

	errs := ValidateImportSchema(schema)
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "project.short_id is required", errs[0].Error())
	}
}
