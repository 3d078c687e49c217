package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newOrgCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage organizations",
	}
	cmd.AddCommand(newOrgAddCmd(app), newOrgListCmd(app))
	return cmd
}

func newOrgAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Create an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := &domain.Organization{Name: strings.TrimSpace(args[0])}
			if err := app.Orgs.Create(cmd.Context(), o); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created organization %s (%s)\n", o.Name, o.ID)
			return nil
		},
	}
}

func newOrgListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			orgs, err := app.Orgs.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(orgs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No organizations yet. Create one with: cadence org add NAME"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatOrganizationList(orgs))
			return nil
		},
	}
}
