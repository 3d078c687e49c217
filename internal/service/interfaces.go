package service

import (
	"context"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/importer"
	"github.com/alexanderramin/cadence/internal/schedule"
)

type OrganizationService interface {
	Create(ctx context.Context, o *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	List(ctx context.Context) ([]*domain.Organization, error)
}

// ProjectService mutates root projects and subprojects. Every mutation that
// changes the hierarchy re-establishes the derived dates of the affected
// ancestors before it commits.
type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, orgID, shortID string) (*domain.Project, error)
	ListRoots(ctx context.Context, orgID string) ([]*domain.Project, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Project, error)
	// Update saves the user-entered fields. Derived dates are ignored.
	Update(ctx context.Context, p *domain.Project) error
	// Move re-parents a project. A nil newParentID turns it into a root.
	Move(ctx context.Context, id string, newParentID *string) error
	Delete(ctx context.Context, id string) error
}

// ProductService mutates deliverable items, the leaves whose dates feed
// the rollup.
type ProductService interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Product, error)
	UpdateDates(ctx context.Context, id string, dates domain.ScheduleDates) (*domain.Product, error)
	Move(ctx context.Context, id, newProjectID string) error
	Delete(ctx context.Context, id string) error
}

type ScheduleService interface {
	// RecalculateAll recomputes every derived date in the organization.
	RecalculateAll(ctx context.Context, orgID string) (schedule.Report, error)
}

// ImportResult summarizes a hierarchy import.
type ImportResult struct {
	Project         *domain.Project
	SubprojectCount int
	ProductCount    int
}

// ImportService creates a root project and its subtree from an import file.
type ImportService interface {
	ImportProject(ctx context.Context, orgID, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, orgID string, schema *importer.ImportSchema) (*ImportResult, error)
}
