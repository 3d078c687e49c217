package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/schedule"
	"github.com/google/uuid"
)

type productService struct {
	products repository.ProductRepo
	mut      mutator
	observer UseCaseObserver
}

func NewProductService(
	products repository.ProductRepo,
	uow db.UnitOfWork,
	locks *schedule.RootLocks,
	observers ...UseCaseObserver,
) ProductService {
	return &productService{
		products: products,
		mut:      newMutator(uow, locks),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *productService) Create(ctx context.Context, p *domain.Product) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": p.ProjectID}
	var walk WalkStats
	defer func() {
		fields["product_id"] = p.ID
		observe(ctx, s.observer, "create-product", startedAt, fields, &walk, &err)
	}()

	if p.Name, err = requireName(p.Name); err != nil {
		return err
	}
	if p.ProjectID == "" {
		return invalidf("project is required")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	return s.mut.run(ctx, rootsOfProjects(p.ProjectID), func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProductRepo(tx).Create(ctx, p); err != nil {
			return err
		}
		return walk.propagate(ctx, tx, p.ProjectID, schedule.Added(p.Schedule()), now)
	})
}

func (s *productService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *productService) ListByProject(ctx context.Context, projectID string) ([]*domain.Product, error) {
	return s.products.ListByProject(ctx, projectID)
}

// UpdateDates replaces the product's dates and propagates the difference.
func (s *productService) UpdateDates(ctx context.Context, id string, dates domain.ScheduleDates) (product *domain.Product, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"product_id": id}
	var walk WalkStats
	defer func() {
		observe(ctx, s.observer, "update-product-dates", startedAt, fields, &walk, &err)
	}()

	err = s.mut.run(ctx, rootsOfProducts(id), func(ctx context.Context, tx db.DBTX) error {
		products := repository.NewSQLiteProductRepo(tx)
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		product = p

		delta := schedule.DeltaBetween(p.Schedule(), dates)
		fields["dimensions"] = delta.Dimensions().String()
		if delta.IsEmpty() {
			return nil
		}

		now := time.Now().UTC()
		p.ApplySchedule(dates, now)
		if err := products.Update(ctx, p); err != nil {
			return err
		}
		return walk.propagate(ctx, tx, p.ProjectID, delta, now)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Move(ctx context.Context, id, newProjectID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"product_id": id, "new_project_id": newProjectID}
	var walk WalkStats
	defer func() {
		observe(ctx, s.observer, "move-product", startedAt, fields, &walk, &err)
	}()

	resolve := func(ctx context.Context, tx db.DBTX) ([]string, error) {
		p, err := repository.NewSQLiteProductRepo(tx).GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return rootsOfProjects(p.ProjectID, newProjectID)(ctx, tx)
	}

	return s.mut.run(ctx, resolve, func(ctx context.Context, tx db.DBTX) error {
		products := repository.NewSQLiteProductRepo(tx)
		projects := repository.NewSQLiteProjectRepo(tx)
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.ProjectID == newProjectID {
			return nil
		}
		from, err := projects.GetByID(ctx, p.ProjectID)
		if err != nil {
			return err
		}
		to, err := projects.GetByID(ctx, newProjectID)
		if err != nil {
			return fmt.Errorf("loading target project: %w", err)
		}
		if from.OrganizationID != to.OrganizationID {
			return ErrCrossOrganization
		}

		now := time.Now().UTC()
		before := p.Schedule()
		p.ProjectID = newProjectID
		p.UpdatedAt = now
		if err := products.Update(ctx, p); err != nil {
			return err
		}
		if err := walk.propagate(ctx, tx, from.ID, schedule.Removed(before), now); err != nil {
			return err
		}
		return walk.propagate(ctx, tx, to.ID, schedule.Added(before), now)
	})
}

func (s *productService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"product_id": id}
	var walk WalkStats
	defer func() {
		observe(ctx, s.observer, "delete-product", startedAt, fields, &walk, &err)
	}()

	return s.mut.run(ctx, rootsOfProducts(id), func(ctx context.Context, tx db.DBTX) error {
		products := repository.NewSQLiteProductRepo(tx)
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := products.Delete(ctx, id); err != nil {
			return err
		}
		return walk.propagate(ctx, tx, p.ProjectID, schedule.Removed(p.Schedule()), time.Now().UTC())
	})
}

func rootsOfProducts(id string) rootResolver {
	return func(ctx context.Context, tx db.DBTX) ([]string, error) {
		p, err := repository.NewSQLiteProductRepo(tx).GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return rootsOfProjects(p.ProjectID)(ctx, tx)
	}
}
