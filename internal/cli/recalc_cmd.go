package cli

import (
	"fmt"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRecalcCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recompute every derived date in an organization",
		Long: `Recompute every derived date in an organization from its deliverable items.

Runs in batches. A failed batch rolls back alone; rerunning is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			orgID, err := resolveOrgID(ctx, app, orgFlag(cmd))
			if err != nil {
				return err
			}
			org, err := app.Orgs.GetByID(ctx, orgID)
			if err != nil {
				return err
			}

			ok, err := confirmAction(app, yes, fmt.Sprintf("Recalculate all schedules in %s?", org.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			rep, err := app.Schedule.RecalculateAll(ctx, orgID)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecalcReport(rep))
			if err != nil {
				return fmt.Errorf("recalculation stopped after %d committed batches: %w", rep.Batches, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
