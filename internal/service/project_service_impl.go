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

type projectService struct {
	projects repository.ProjectRepo
	mut      mutator
	observer UseCaseObserver
}

func NewProjectService(
	projects repository.ProjectRepo,
	uow db.UnitOfWork,
	locks *schedule.RootLocks,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		projects: projects,
		mut:      newMutator(uow, locks),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"organization_id": p.OrganizationID}
	var walk WalkStats
	defer func() {
		fields["project_id"] = p.ID
		observe(ctx, s.observer, "create-project", startedAt, fields, &walk, &err)
	}()

	if p.Name, err = requireName(p.Name); err != nil {
		return err
	}
	if p.OrganizationID == "" {
		return invalidf("organization is required")
	}
	if p.ShortID != "" {
		if err = p.ValidateShortID(); err != nil {
			return invalidf("%v", err)
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	// A new project has no children yet.
	p.ApplySchedule(schedule.Aggregate(nil), now)

	if p.ParentID == nil {
		return s.mut.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return repository.NewSQLiteProjectRepo(tx).Create(ctx, p)
		})
	}

	parentID := *p.ParentID
	return s.mut.run(ctx, rootsOfProjects(parentID), func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		parent, err := projects.GetByID(ctx, parentID)
		if err != nil {
			return fmt.Errorf("loading parent: %w", err)
		}
		if err := checkParent(p, parent); err != nil {
			return err
		}
		if err := projects.Create(ctx, p); err != nil {
			return err
		}
		return walk.propagate(ctx, tx, parentID, schedule.Added(p.Schedule()), now)
	})
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) GetByShortID(ctx context.Context, orgID, shortID string) (*domain.Project, error) {
	return s.projects.GetByShortID(ctx, orgID, shortID)
}

func (s *projectService) ListRoots(ctx context.Context, orgID string) ([]*domain.Project, error) {
	return s.projects.ListRoots(ctx, orgID)
}

func (s *projectService) ListChildren(ctx context.Context, parentID string) ([]*domain.Project, error) {
	return s.projects.ListChildren(ctx, parentID)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": p.ID}
	defer func() {
		observe(ctx, s.observer, "update-project", startedAt, fields, nil, &err)
	}()

	if p.Name, err = requireName(p.Name); err != nil {
		return err
	}
	if p.ShortID != "" {
		if err = p.ValidateShortID(); err != nil {
			return invalidf("%v", err)
		}
	}

	return s.mut.run(ctx, rootsOfProjects(p.ID), func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		current, err := projects.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		current.Name = p.Name
		current.ShortID = p.ShortID
		current.CustomerID = p.CustomerID
		current.FixedDeadline = p.FixedDeadline
		current.UpdatedAt = time.Now().UTC()
		if err := projects.Update(ctx, current); err != nil {
			return err
		}
		*p = *current
		return nil
	})
}

func (s *projectService) Move(ctx context.Context, id string, newParentID *string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": id, "new_parent_id": derefOr(newParentID, "")}
	var walk WalkStats
	defer func() {
		observe(ctx, s.observer, "move-project", startedAt, fields, &walk, &err)
	}()

	if newParentID != nil && *newParentID == id {
		return ErrSelfParent
	}

	resolve := func(ctx context.Context, tx db.DBTX) ([]string, error) {
		projects := repository.NewSQLiteProjectRepo(tx)
		node, err := projects.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		newRoot := node.ID
		if newParentID != nil {
			parent, err := projects.GetByID(ctx, *newParentID)
			if err != nil {
				return nil, fmt.Errorf("loading new parent: %w", err)
			}
			newRoot = parent.RootID()
		}
		return rootSet(node.RootID(), newRoot), nil
	}

	return s.mut.run(ctx, resolve, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		node, err := projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sameID(node.ParentID, newParentID) {
			return nil
		}
		if newParentID != nil {
			parent, err := projects.GetByID(ctx, *newParentID)
			if err != nil {
				return fmt.Errorf("loading new parent: %w", err)
			}
			if err := checkParent(node, parent); err != nil {
				return err
			}
			n, err := projects.CountChildren(ctx, node.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrHasSubprojects
			}
		}

		now := time.Now().UTC()
		before := node.Schedule()
		oldParentID := node.ParentID
		node.ParentID = newParentID
		node.UpdatedAt = now
		if err := projects.Update(ctx, node); err != nil {
			return err
		}

		if oldParentID != nil {
			if err := walk.propagate(ctx, tx, *oldParentID, schedule.Removed(before), now); err != nil {
				return err
			}
		}
		if newParentID != nil {
			return walk.propagate(ctx, tx, *newParentID, schedule.Added(before), now)
		}
		return nil
	})
}

// Delete removes the project with its subprojects and products.
func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": id}
	var walk WalkStats
	defer func() {
		observe(ctx, s.observer, "delete-project", startedAt, fields, &walk, &err)
	}()

	return s.mut.run(ctx, rootsOfProjects(id), func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		node, err := projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := projects.Delete(ctx, id); err != nil {
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		return walk.propagate(ctx, tx, *node.ParentID, schedule.Removed(node.Schedule()), time.Now().UTC())
	})
}

// checkParent enforces the two-level hierarchy for child under parent.
func checkParent(child, parent *domain.Project) error {
	if parent.ID == child.ID {
		return ErrSelfParent
	}
	if parent.OrganizationID != child.OrganizationID {
		return ErrCrossOrganization
	}
	if !parent.IsRoot() {
		return ErrNestedSubproject
	}
	return nil
}

// rootsOfProjects resolves the roots owning the given projects.
func rootsOfProjects(ids ...string) rootResolver {
	return func(ctx context.Context, tx db.DBTX) ([]string, error) {
		projects := repository.NewSQLiteProjectRepo(tx)
		roots := make([]string, 0, len(ids))
		for _, id := range ids {
			p, err := projects.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			roots = append(roots, p.RootID())
		}
		return rootSet(roots...), nil
	}
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
