package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent so the whole
// list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		customer_id     TEXT,
		parent_id       TEXT REFERENCES projects(id) ON DELETE CASCADE,
		short_id        TEXT NOT NULL DEFAULT '',
		name            TEXT NOT NULL,
		fixed_deadline  TEXT,
		available_date  TEXT,
		start_date      TEXT,
		end_date        TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_org_parent ON projects(organization_id, parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_parent ON projects(parent_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id
		ON projects(organization_id, short_id) WHERE short_id <> ''`,
	`CREATE TABLE IF NOT EXISTS products (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name           TEXT NOT NULL,
		available_date TEXT,
		start_date     TEXT,
		end_date       TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_project ON products(project_id)`,
}
