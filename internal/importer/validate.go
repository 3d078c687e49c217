package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

const dateLayout = "2006-01-02"

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	shortIDs := make(map[string]string) // short ID -> where it was declared
	errs = append(errs, validateProject(&schema.Project, shortIDs)...)

	refs := make(map[string]bool)
	errs = append(errs, validateSubprojects(schema.Subprojects, refs, shortIDs)...)
	errs = append(errs, validateItems(schema.Items, refs)...)

	return errs
}

func validateProject(p *ProjectImport, shortIDs map[string]string) []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	} else {
		errs = append(errs, validateShortID("project.short_id", p.ShortID, shortIDs)...)
	}
	errs = append(errs, validateDate("project.deadline", p.Deadline)...)

	return errs
}

func validateSubprojects(subs []SubprojectImport, refs map[string]bool, shortIDs map[string]string) []error {
	var errs []error

	for i, s := range subs {
		prefix := fmt.Sprintf("subprojects[%d]", i)

		if s.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[s.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, s.Ref))
		} else {
			refs[s.Ref] = true
		}

		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if s.ShortID != "" {
			errs = append(errs, validateShortID(prefix+".short_id", s.ShortID, shortIDs)...)
		}
		errs = append(errs, validateDate(prefix+".deadline", s.Deadline)...)
	}

	return errs
}

func validateItems(items []ItemImport, refs map[string]bool) []error {
	var errs []error

	for i, it := range items {
		prefix := fmt.Sprintf("items[%d]", i)

		if strings.TrimSpace(it.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if it.Owner != "" && !refs[it.Owner] {
			errs = append(errs, fmt.Errorf("%s.owner: unknown subproject ref %q", prefix, it.Owner))
		}
		errs = append(errs, validateDate(prefix+".available", it.Available)...)
		errs = append(errs, validateDate(prefix+".start", it.Start)...)
		errs = append(errs, validateDate(prefix+".end", it.End)...)
	}

	return errs
}

func validateShortID(field, shortID string, seen map[string]string) []error {
	upper := strings.ToUpper(shortID)
	p := domain.Project{ShortID: upper}
	if err := p.ValidateShortID(); err != nil {
		return []error{fmt.Errorf("%s: %w", field, err)}
	}
	if prev, ok := seen[upper]; ok {
		return []error{fmt.Errorf("%s: short ID %q already used by %s", field, upper, prev)}
	}
	seen[upper] = field
	return nil
}

func validateDate(field string, s *string) []error {
	if s == nil {
		return nil
	}
	if _, err := time.Parse(dateLayout, *s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)}
	}
	return nil
}
