package cli

import (
	"fmt"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newProductCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"item"},
		Short:   "Manage deliverable items",
	}

	cmd.AddCommand(
		newProductAddCmd(app),
		newProductDatesCmd(app),
		newProductMoveCmd(app),
		newProductRemoveCmd(app),
	)
	return cmd
}

func newProductAddCmd(app *App) *cobra.Command {
	var name, project string
	var dates scheduleFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a deliverable item under a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := resolveProject(cmd, app, project)
			if err != nil {
				return err
			}
			p := &domain.Product{
				ProjectID:     owner.ID,
				Name:          name,
				AvailableDate: dates.available,
				StartDate:     dates.start,
				EndDate:       dates.end,
			}
			if err := app.Products.Create(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created item %s (%s) under %s\n", p.Name, p.ID, owner.DisplayID())
			return printRollup(cmd, app, owner.ID)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().StringVar(&project, "project", "", "Owning project (ID or short ID)")
	dates.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newProductDatesCmd(app *App) *cobra.Command {
	var dates scheduleFlags

	cmd := &cobra.Command{
		Use:   "dates ITEM",
		Short: "Set an item's dates; unspecified dates keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Products.GetByID(ctx, args[0])
			if err != nil {
				return err
			}

			next := p.Schedule()
			flags := cmd.Flags()
			if flags.Changed("available") {
				next.Available = dates.available
			}
			if flags.Changed("start") {
				next.Start = dates.start
			}
			if flags.Changed("end") {
				next.End = dates.end
			}
			if !flags.Changed("available") && !flags.Changed("start") && !flags.Changed("end") {
				return fmt.Errorf("no dates specified (use --available, --start or --end)")
			}

			updated, err := app.Products.UpdateDates(ctx, p.ID, next)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", formatter.Bold(updated.Name), formatter.ScheduleDetail(updated.Schedule()))
			return printRollup(cmd, app, updated.ProjectID)
		},
	}

	dates.register(cmd.Flags())
	return cmd
}

func newProductMoveCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "move ITEM",
		Short: "Move an item to another project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveProject(cmd, app, project)
			if err != nil {
				return err
			}
			if err := app.Products.Move(cmd.Context(), args[0], target.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved item under %s\n", target.DisplayID())
			return printRollup(cmd, app, target.ID)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "New owning project (ID or short ID)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newProductRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm ITEM",
		Short: "Delete a deliverable item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Products.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := confirmAction(app, yes, fmt.Sprintf("Delete item %s?", p.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := app.Products.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", p.Name)
			return printRollup(cmd, app, p.ProjectID)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// printRollup prints the derived dates of a project after a mutation.
func printRollup(cmd *cobra.Command, app *App, projectID string) error {
	p, err := app.Projects.GetByID(cmd.Context(), projectID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", formatter.Dim("→"), p.DisplayID(), formatter.ScheduleDetail(p.Schedule()))
	return nil
}
