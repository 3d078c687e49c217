package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

var errMissing = errors.New("missing")

// memStore is an in-memory NodeStore that counts calls.
type memStore struct {
	nodes    map[string]*domain.Project
	products map[string][]domain.ScheduleDates

	loads      int
	childReads int
	saves      int
}

func newMemStore() *memStore {
	return &memStore{
		nodes:    make(map[string]*domain.Project),
		products: make(map[string][]domain.ScheduleDates),
	}
}

func (m *memStore) addNode(id string, parent string, d domain.ScheduleDates) *domain.Project {
	n := &domain.Project{ID: id}
	if parent != "" {
		n.ParentID = &parent
	}
	n.ApplySchedule(d, time.Time{})
	m.nodes[id] = n
	return n
}

func (m *memStore) addProduct(projectID string, d domain.ScheduleDates) int {
	m.products[projectID] = append(m.products[projectID], d)
	return len(m.products[projectID]) - 1
}

func (m *memStore) LoadNode(_ context.Context, id string) (*domain.Project, error) {
	m.loads++
	n, ok := m.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, errMissing)
	}
	cp := *n
	return &cp, nil
}

func (m *memStore) LoadChildren(_ context.Context, node *domain.Project) ([]domain.ScheduleDates, error) {
	m.childReads++
	return m.children(node.ID), nil
}

func (m *memStore) children(id string) []domain.ScheduleDates {
	out := append([]domain.ScheduleDates(nil), m.products[id]...)
	for _, n := range m.nodes {
		if n.ParentID != nil && *n.ParentID == id {
			out = append(out, n.Schedule())
		}
	}
	return out
}

func (m *memStore) Save(_ context.Context, node *domain.Project) error {
	m.saves++
	cp := *node
	m.nodes[node.ID] = &cp
	return nil
}

func (m *memStore) resetCounters() {
	m.loads, m.childReads, m.saves = 0, 0, 0
}

func day(month time.Month, d int) *time.Time {
	t := time.Date(2025, month, d, 0, 0, 0, 0, time.UTC)
	return &t
}
