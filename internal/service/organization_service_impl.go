package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/google/uuid"
)

type organizationService struct {
	orgs repository.OrganizationRepo
}

func NewOrganizationService(orgs repository.OrganizationRepo) OrganizationService {
	return &organizationService{orgs: orgs}
}

func (s *organizationService) Create(ctx context.Context, o *domain.Organization) error {
	name, err := requireName(o.Name)
	if err != nil {
		return err
	}
	o.Name = name
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	o.CreatedAt = time.Now().UTC()
	return s.orgs.Create(ctx, o)
}

func (s *organizationService) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	return s.orgs.GetByID(ctx, id)
}

func (s *organizationService) List(ctx context.Context) ([]*domain.Organization, error) {
	return s.orgs.List(ctx)
}
