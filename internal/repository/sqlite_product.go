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

const productColumns = `id, project_id, name, available_date, start_date, end_date, created_at, updated_at`

// SQLiteProductRepo implements ProductRepo using a SQLite database.
type SQLiteProductRepo struct {
	db db.DBTX
}

func NewSQLiteProductRepo(conn db.DBTX) *SQLiteProductRepo {
	return &SQLiteProductRepo{db: conn}
}

func (r *SQLiteProductRepo) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ProjectID,
		p.Name,
		nullableTimeToString(p.AvailableDate, time.RFC3339),
		nullableTimeToString(p.StartDate, time.RFC3339),
		nullableTimeToString(p.EndDate, time.RFC3339),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func (r *SQLiteProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	return r.scanProduct(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteProductRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE project_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return products, nil
}

func (r *SQLiteProductRepo) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET project_id = ?, name = ?, available_date = ?, start_date = ?,
		end_date = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.ProjectID,
		p.Name,
		nullableTimeToString(p.AvailableDate, time.RFC3339),
		nullableTimeToString(p.StartDate, time.RFC3339),
		nullableTimeToString(p.EndDate, time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

func (r *SQLiteProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

func (r *SQLiteProductRepo) scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var availableStr, startStr, endStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(&p.ID, &p.ProjectID, &p.Name, &availableStr, &startStr, &endStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	p.AvailableDate = parseNullableTime(availableStr, time.RFC3339)
	p.StartDate = parseNullableTime(startStr, time.RFC3339)
	p.EndDate = parseNullableTime(endStr, time.RFC3339)
	return &p, nil
}
