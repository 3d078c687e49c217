package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/importer"
	"github.com/alexanderramin/cadence/internal/repository"
)

type importService struct {
	orgs     repository.OrganizationRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(orgs repository.OrganizationRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		orgs:     orgs,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportProject(ctx context.Context, orgID, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportProjectFromSchema(ctx, orgID, schema)
}

// ImportProjectFromSchema creates a new root project with its whole subtree
// in one transaction. The subtree is new, so no existing ancestor needs
// propagation and no root lock is taken.
func (s *importService) ImportProjectFromSchema(ctx context.Context, orgID string, schema *importer.ImportSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"organization_id": orgID}
	defer func() {
		if result != nil {
			fields["project_id"] = result.Project.ID
			fields["subprojects"] = result.SubprojectCount
			fields["products"] = result.ProductCount
		}
		observe(ctx, s.observer, "import-project", startedAt, fields, nil, &err)
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	if _, err = s.orgs.GetByID(ctx, orgID); err != nil {
		return nil, fmt.Errorf("loading organization: %w", err)
	}

	generated, err := importer.Convert(schema, orgID)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		products := repository.NewSQLiteProductRepo(tx)

		if err := projects.Create(ctx, generated.Root); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, sub := range generated.Subprojects {
			if err := projects.Create(ctx, sub); err != nil {
				return fmt.Errorf("creating subproject %q: %w", sub.Name, err)
			}
		}
		for _, p := range generated.Products {
			if err := products.Create(ctx, p); err != nil {
				return fmt.Errorf("creating item %q: %w", p.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Project:         generated.Root,
		SubprojectCount: len(generated.Subprojects),
		ProductCount:    len(generated.Products),
	}, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - " + e.Error())
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, b.String())
}
