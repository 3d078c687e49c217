package repository

import (
	"context"

	"github.com/alexanderramin/cadence/internal/domain"
)

type OrganizationRepo interface {
	Create(ctx context.Context, o *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	List(ctx context.Context) ([]*domain.Organization, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, orgID, shortID string) (*domain.Project, error)
	ListRoots(ctx context.Context, orgID string) ([]*domain.Project, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Project, error)
	// ListPage returns up to limit projects of one kind with id > afterID.
	ListPage(ctx context.Context, orgID string, kind domain.NodeKind, afterID string, limit int) ([]*domain.Project, error)
	CountChildren(ctx context.Context, parentID string) (int, error)
	Update(ctx context.Context, p *domain.Project) error
	// UpdateSchedule writes only the derived dates.
	UpdateSchedule(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type ProductRepo interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}
