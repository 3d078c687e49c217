package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

type SQLiteOrganizationRepo struct {
	db db.DBTX
}

func NewSQLiteOrganizationRepo(conn db.DBTX) *SQLiteOrganizationRepo {
	return &SQLiteOrganizationRepo{db: conn}
}

func (r *SQLiteOrganizationRepo) Create(ctx context.Context, o *domain.Organization) error {
	createdAt := nowUTC()
	if !o.CreatedAt.IsZero() {
		createdAt = o.CreatedAt.UTC().Format(time.RFC3339)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organizations (id, name, created_at) VALUES (?, ?, ?)`,
		o.ID, o.Name, createdAt)
	if err != nil {
		return fmt.Errorf("inserting organization: %w", err)
	}
	return nil
}

func (r *SQLiteOrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM organizations WHERE id = ?`, id)
	o, err := scanOrganization(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("organization: %w", ErrNotFound)
	}
	return o, err
}

func (r *SQLiteOrganizationRepo) List(ctx context.Context) ([]*domain.Organization, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM organizations ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating organizations: %w", err)
	}
	return orgs, nil
}

func scanOrganization(row rowScanner) (*domain.Organization, error) {
	var o domain.Organization
	var createdAtStr string
	if err := row.Scan(&o.ID, &o.Name, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning organization: %w", err)
	}
	t, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	o.CreatedAt = t
	return &o, nil
}
