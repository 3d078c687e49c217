package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/spf13/cobra"
)

// resolveOrgID accepts an organization ID or a case-insensitive name.
func resolveOrgID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("organization is required (use --org or CADENCE_ORG)")
	}
	if o, err := app.Orgs.GetByID(ctx, input); err == nil {
		return o.ID, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	orgs, err := app.Orgs.List(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, o := range orgs {
		if strings.EqualFold(o.Name, input) {
			matches = append(matches, o.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("organization not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("organization name %q is ambiguous (%d matches)", input, len(matches))
	}
}

func orgFlag(cmd *cobra.Command) string {
	v, _ := cmd.Flags().GetString("org")
	return v
}

// resolveProject accepts a project UUID, or a short ID within the
// organization given by --org.
func resolveProject(cmd *cobra.Command, app *App, input string) (*domain.Project, error) {
	ctx := cmd.Context()
	if input == "" {
		return nil, fmt.Errorf("project ID is required")
	}
	p, err := app.Projects.GetByID(ctx, input)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	org := orgFlag(cmd)
	if org == "" {
		return nil, fmt.Errorf("project not found: %q (pass --org to look up short IDs)", input)
	}
	orgID, err := resolveOrgID(ctx, app, org)
	if err != nil {
		return nil, err
	}
	p, err = app.Projects.GetByShortID(ctx, orgID, strings.ToUpper(input))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("project not found: %q", input)
		}
		return nil, err
	}
	return p, nil
}
