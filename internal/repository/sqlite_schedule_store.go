package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/schedule"
)

// SQLiteScheduleStore gives the schedule engine node-and-children access
// over one connection or transaction.
type SQLiteScheduleStore struct {
	db       db.DBTX
	projects *SQLiteProjectRepo
}

var (
	_ schedule.NodeStore  = (*SQLiteScheduleStore)(nil)
	_ schedule.BatchStore = (*SQLiteScheduleStore)(nil)
)

func NewSQLiteScheduleStore(conn db.DBTX) *SQLiteScheduleStore {
	return &SQLiteScheduleStore{db: conn, projects: NewSQLiteProjectRepo(conn)}
}

// NewScheduleBatchStore adapts NewSQLiteScheduleStore to a
// schedule.BatchStoreFactory.
func NewScheduleBatchStore(tx db.DBTX) schedule.BatchStore {
	return NewSQLiteScheduleStore(tx)
}

func (s *SQLiteScheduleStore) LoadNode(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// LoadChildren returns the dates of node's products and, for a root, of its
// subprojects.
func (s *SQLiteScheduleStore) LoadChildren(ctx context.Context, node *domain.Project) ([]domain.ScheduleDates, error) {
	byNode, err := s.LoadChildrenBatch(ctx, []*domain.Project{node})
	if err != nil {
		return nil, err
	}
	return byNode[node.ID], nil
}

func (s *SQLiteScheduleStore) Save(ctx context.Context, node *domain.Project) error {
	return s.projects.UpdateSchedule(ctx, node)
}

func (s *SQLiteScheduleStore) ListNodes(ctx context.Context, orgID string, kind domain.NodeKind, afterID string, limit int) ([]*domain.Project, error) {
	return s.projects.ListPage(ctx, orgID, kind, afterID, limit)
}

// maxBoundVars caps the ids bound into one IN (...) list. SQLite rejects
// statements with more than 32766 host parameters.
var maxBoundVars = 32766

func (s *SQLiteScheduleStore) LoadChildrenBatch(ctx context.Context, nodes []*domain.Project) (map[string][]domain.ScheduleDates, error) {
	out := make(map[string][]domain.ScheduleDates, len(nodes))
	if len(nodes) == 0 {
		return out, nil
	}

	ids := make([]any, 0, len(nodes))
	var rootIDs []any
	for _, n := range nodes {
		ids = append(ids, n.ID)
		if n.IsRoot() {
			rootIDs = append(rootIDs, n.ID)
		}
	}

	productQuery := `SELECT project_id, available_date, start_date, end_date FROM products
		WHERE project_id IN (%s)`
	if err := s.collectDatesChunked(ctx, out, productQuery, ids); err != nil {
		return nil, fmt.Errorf("loading product dates: %w", err)
	}

	subQuery := `SELECT parent_id, available_date, start_date, end_date FROM projects
		WHERE parent_id IN (%s)`
	if err := s.collectDatesChunked(ctx, out, subQuery, rootIDs); err != nil {
		return nil, fmt.Errorf("loading subproject dates: %w", err)
	}
	return out, nil
}

type preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// SaveBatch writes every node's schedule through one prepared UPDATE when
// the connection can prepare statements, and one Exec per node otherwise.
func (s *SQLiteScheduleStore) SaveBatch(ctx context.Context, nodes []*domain.Project) error {
	if len(nodes) == 0 {
		return nil
	}
	p, ok := s.db.(preparer)
	if !ok {
		for _, n := range nodes {
			if err := s.projects.UpdateSchedule(ctx, n); err != nil {
				return err
			}
		}
		return nil
	}

	stmt, err := p.PrepareContext(ctx, updateScheduleQuery)
	if err != nil {
		return fmt.Errorf("preparing schedule update: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		res, err := stmt.ExecContext(ctx, scheduleArgs(n)...)
		if err := scheduleUpdated(n, res, err); err != nil {
			return err
		}
	}
	return nil
}

// collectDatesChunked runs query once per maxBoundVars-sized slice of ids.
// query carries a single %s for the placeholder list.
func (s *SQLiteScheduleStore) collectDatesChunked(ctx context.Context, out map[string][]domain.ScheduleDates, query string, ids []any) error {
	for len(ids) > 0 {
		n := min(len(ids), maxBoundVars)
		if err := s.collectDates(ctx, out, fmt.Sprintf(query, placeholders(n)), ids[:n]); err != nil {
			return err
		}
		ids = ids[n:]
	}
	return nil
}

func (s *SQLiteScheduleStore) collectDates(ctx context.Context, out map[string][]domain.ScheduleDates, query string, args []any) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ownerID string
		var availableStr, startStr, endStr sql.NullString
		if err := rows.Scan(&ownerID, &availableStr, &startStr, &endStr); err != nil {
			return fmt.Errorf("scanning child dates: %w", err)
		}
		out[ownerID] = append(out[ownerID], domain.ScheduleDates{
			Available: parseNullableTime(availableStr, time.RFC3339),
			Start:     parseNullableTime(startStr, time.RFC3339),
			End:       parseNullableTime(endStr, time.RFC3339),
		})
	}
	return rows.Err()
}
