package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/schedule"
	"github.com/google/uuid"
)

// Hierarchy is a converted import, ready for persistence. Derived dates are
// already aggregated bottom-up.
type Hierarchy struct {
	Root        *domain.Project
	Subprojects []*domain.Project
	Products    []*domain.Product
}

// Convert transforms a validated ImportSchema into domain objects owned by
// orgID. Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema, orgID string) (*Hierarchy, error) {
	now := time.Now().UTC()

	deadline, err := parseOptionalDate(schema.Project.Deadline)
	if err != nil {
		return nil, fmt.Errorf("parsing project deadline: %w", err)
	}
	root := &domain.Project{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		CustomerID:     schema.Project.CustomerID,
		ShortID:        strings.ToUpper(schema.Project.ShortID),
		Name:           strings.TrimSpace(schema.Project.Name),
		FixedDeadline:  deadline,
		CreatedAt:      now,
	}
	h := &Hierarchy{Root: root}

	refMap := make(map[string]*domain.Project) // ref -> subproject
	for _, s := range schema.Subprojects {
		deadline, err := parseOptionalDate(s.Deadline)
		if err != nil {
			return nil, fmt.Errorf("parsing deadline of %q: %w", s.Ref, err)
		}
		sub := &domain.Project{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			ParentID:       &root.ID,
			CustomerID:     root.CustomerID,
			ShortID:        strings.ToUpper(s.ShortID),
			Name:           strings.TrimSpace(s.Name),
			FixedDeadline:  deadline,
			CreatedAt:      now,
		}
		refMap[s.Ref] = sub
		h.Subprojects = append(h.Subprojects, sub)
	}

	children := make(map[string][]domain.ScheduleDates)
	for _, it := range schema.Items {
		owner := root
		if it.Owner != "" {
			sub, ok := refMap[it.Owner]
			if !ok {
				return nil, fmt.Errorf("owner %q not found for item %q", it.Owner, it.Name)
			}
			owner = sub
		}

		var dates domain.ScheduleDates
		for _, f := range []struct {
			raw *string
			dst **time.Time
		}{
			{it.Available, &dates.Available},
			{it.Start, &dates.Start},
			{it.End, &dates.End},
		} {
			if *f.dst, err = parseOptionalDate(f.raw); err != nil {
				return nil, fmt.Errorf("parsing dates of %q: %w", it.Name, err)
			}
		}

		p := &domain.Product{
			ID:        uuid.New().String(),
			ProjectID: owner.ID,
			Name:      strings.TrimSpace(it.Name),
			CreatedAt: now,
		}
		p.ApplySchedule(dates, now)
		h.Products = append(h.Products, p)
		children[owner.ID] = append(children[owner.ID], dates)
	}

	// Subprojects first: the root aggregates their results.
	for _, sub := range h.Subprojects {
		sub.ApplySchedule(schedule.Aggregate(children[sub.ID]), now)
		children[root.ID] = append(children[root.ID], sub.Schedule())
	}
	root.ApplySchedule(schedule.Aggregate(children[root.ID]), now)

	return h, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
