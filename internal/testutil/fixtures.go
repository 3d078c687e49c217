package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Day returns a pointer to midnight UTC on the given 2025 date.
func Day(month time.Month, day int) *time.Time {
	t := time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func NewTestOrganization(name string) *domain.Organization {
	return &domain.Organization{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// Project options
type ProjectOption func(*domain.Project)

func WithParent(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ParentID = &id
	}
}

func WithCustomer(id string) ProjectOption {
	return func(p *domain.Project) {
		p.CustomerID = &id
	}
}

func WithFixedDeadline(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.FixedDeadline = &d
	}
}

// WithSchedule presets the derived dates, for seeding stale or
// hand-computed state.
func WithSchedule(available, start, end *time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.AvailableDate = available
		p.StartDate = start
		p.EndDate = end
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(orgID, name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		ShortID:        defaultShortID(name),
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Product options
type ProductOption func(*domain.Product)

func WithDates(available, start, end *time.Time) ProductOption {
	return func(p *domain.Product) {
		p.AvailableDate = available
		p.StartDate = start
		p.EndDate = end
	}
}

func NewTestProduct(projectID, name string, opts ...ProductOption) *domain.Product {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Product{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
