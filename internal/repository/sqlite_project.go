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

// projectColumns is the canonical SELECT column list for projects.
const projectColumns = `id, organization_id, customer_id, parent_id, short_id, name,
		fixed_deadline, available_date, start_date, end_date, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.OrganizationID,
		nullableString(p.CustomerID),
		nullableString(p.ParentID),
		p.ShortID,
		p.Name,
		nullableTimeToString(p.FixedDeadline, dateLayout),
		nullableTimeToString(p.AvailableDate, time.RFC3339),
		nullableTimeToString(p.StartDate, time.RFC3339),
		nullableTimeToString(p.EndDate, time.RFC3339),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return r.scanProject(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteProjectRepo) GetByShortID(ctx context.Context, orgID, shortID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE organization_id = ? AND UPPER(short_id) = UPPER(?)`
	return r.scanProject(r.db.QueryRowContext(ctx, query, orgID, shortID))
}

func (r *SQLiteProjectRepo) ListRoots(ctx context.Context, orgID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE organization_id = ? AND parent_id IS NULL ORDER BY created_at, id`
	return r.queryProjects(ctx, "listing root projects", query, orgID)
}

func (r *SQLiteProjectRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE parent_id = ? ORDER BY created_at, id`
	return r.queryProjects(ctx, "listing subprojects", query, parentID)
}

func (r *SQLiteProjectRepo) ListPage(ctx context.Context, orgID string, kind domain.NodeKind, afterID string, limit int) ([]*domain.Project, error) {
	parentFilter := `parent_id IS NULL`
	if kind == domain.NodeSubproject {
		parentFilter = `parent_id IS NOT NULL`
	}
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE organization_id = ? AND ` + parentFilter + ` AND id > ?
		ORDER BY id LIMIT ?`
	return r.queryProjects(ctx, "listing project page", query, orgID, afterID, limit)
}

func (r *SQLiteProjectRepo) CountChildren(ctx context.Context, parentID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE parent_id = ?`, parentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting subprojects of %s: %w", parentID, err)
	}
	return n, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET customer_id = ?, parent_id = ?, short_id = ?, name = ?,
		fixed_deadline = ?, available_date = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableString(p.CustomerID),
		nullableString(p.ParentID),
		p.ShortID,
		p.Name,
		nullableTimeToString(p.FixedDeadline, dateLayout),
		nullableTimeToString(p.AvailableDate, time.RFC3339),
		nullableTimeToString(p.StartDate, time.RFC3339),
		nullableTimeToString(p.EndDate, time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

const updateScheduleQuery = `UPDATE projects SET available_date = ?, start_date = ?, end_date = ?, updated_at = ?
	WHERE id = ?`

func (r *SQLiteProjectRepo) UpdateSchedule(ctx context.Context, p *domain.Project) error {
	res, err := r.db.ExecContext(ctx, updateScheduleQuery, scheduleArgs(p)...)
	return scheduleUpdated(p, res, err)
}

func scheduleArgs(p *domain.Project) []any {
	return []any{
		nullableTimeToString(p.AvailableDate, time.RFC3339),
		nullableTimeToString(p.StartDate, time.RFC3339),
		nullableTimeToString(p.EndDate, time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	}
}

func scheduleUpdated(p *domain.Project, res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("updating project schedule: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("project %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) queryProjects(ctx context.Context, op, query string, args ...any) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := r.scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// scanProject scans a single project row.
func (r *SQLiteProjectRepo) scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var customerID, parentID sql.NullString
	var deadlineStr, availableStr, startStr, endStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.OrganizationID, &customerID, &parentID, &p.ShortID, &p.Name,
		&deadlineStr, &availableStr, &startStr, &endStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	if customerID.Valid {
		p.CustomerID = &customerID.String
	}
	if parentID.Valid {
		p.ParentID = &parentID.String
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

	p.FixedDeadline = parseNullableTime(deadlineStr, dateLayout)
	p.AvailableDate = parseNullableTime(availableStr, time.RFC3339)
	p.StartDate = parseNullableTime(startStr, time.RFC3339)
	p.EndDate = parseNullableTime(endStr, time.RFC3339)

	return &p, nil
}
