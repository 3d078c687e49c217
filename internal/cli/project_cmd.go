package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage root projects and subprojects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectMoveCmd(app),
		newProjectRemoveCmd(app),
	)
	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, shortID, parent, customer string
	var deadline *time.Time

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a root project, or a subproject with --parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := &domain.Project{
				ShortID:       strings.ToUpper(shortID),
				Name:          name,
				CustomerID:    domain.StrPtrOrNil(customer),
				FixedDeadline: deadline,
			}

			if parent != "" {
				pp, err := resolveProject(cmd, app, parent)
				if err != nil {
					return err
				}
				p.ParentID = &pp.ID
				p.OrganizationID = pp.OrganizationID
			} else {
				orgID, err := resolveOrgID(ctx, app, orgFlag(cmd))
				if err != nil {
					return err
				}
				p.OrganizationID = orgID
			}

			if err := app.Projects.Create(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s [%s]\n", p.Kind(), p.Name, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. ACME01)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent root project (ID or short ID)")
	cmd.Flags().StringVar(&customer, "customer", "", "Customer ID")
	dateVar(cmd.Flags(), &deadline, "deadline", "Fixed deadline")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [PARENT]",
		Short: "List root projects, or the subprojects of PARENT",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var projects []*domain.Project
			if len(args) == 1 {
				parent, err := resolveProject(cmd, app, args[0])
				if err != nil {
					return err
				}
				if projects, err = app.Projects.ListChildren(ctx, parent.ID); err != nil {
					return err
				}
			} else {
				orgID, err := resolveOrgID(ctx, app, orgFlag(cmd))
				if err != nil {
					return err
				}
				if projects, err = app.Projects.ListRoots(ctx, orgID); err != nil {
					return err
				}
			}

			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No projects found."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show a project's derived dates and its schedule tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(cmd, app, args[0])
			if err != nil {
				return err
			}

			data := formatter.ProjectScheduleData{
				Project:  p,
				Products: make(map[string][]*domain.Product),
			}
			if p.IsRoot() {
				if data.Subprojects, err = app.Projects.ListChildren(ctx, p.ID); err != nil {
					return err
				}
			}
			for _, owner := range append([]*domain.Project{p}, data.Subprojects...) {
				items, err := app.Products.ListByProject(ctx, owner.ID)
				if err != nil {
					return err
				}
				data.Products[owner.ID] = items
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectSchedule(data))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, shortID, customer string
	var deadline *time.Time

	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Update a project's name, short ID, customer or fixed deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(cmd, app, args[0])
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("name") {
				p.Name = name
				changed = true
			}
			if cmd.Flags().Changed("id") {
				p.ShortID = strings.ToUpper(shortID)
				changed = true
			}
			if cmd.Flags().Changed("customer") {
				p.CustomerID = domain.StrPtrOrNil(customer)
				changed = true
			}
			if cmd.Flags().Changed("deadline") {
				p.FixedDeadline = deadline
				changed = true
			}
			if !changed {
				return fmt.Errorf("no changes specified")
			}

			if err := app.Projects.Update(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s [%s]\n", p.Name, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&shortID, "id", "", "New short ID")
	cmd.Flags().StringVar(&customer, "customer", "", "Customer ID; empty clears it")
	dateVar(cmd.Flags(), &deadline, "deadline", "Fixed deadline")
	return cmd
}

func newProjectMoveCmd(app *App) *cobra.Command {
	var parent string
	var toRoot bool

	cmd := &cobra.Command{
		Use:   "move PROJECT",
		Short: "Move a project under another root project, or make it a root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (parent == "") == !toRoot {
				return fmt.Errorf("pass exactly one of --parent or --root")
			}
			p, err := resolveProject(cmd, app, args[0])
			if err != nil {
				return err
			}

			var newParentID *string
			if parent != "" {
				pp, err := resolveProject(cmd, app, parent)
				if err != nil {
					return err
				}
				newParentID = &pp.ID
			}

			if err := app.Projects.Move(cmd.Context(), p.ID, newParentID); err != nil {
				return err
			}
			if newParentID == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to the top level\n", p.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Moved %s under %s\n", p.Name, parent)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "New parent root project")
	cmd.Flags().BoolVar(&toRoot, "root", false, "Detach the project and make it a root")
	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm PROJECT",
		Short: "Delete a project with its subprojects and items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(cmd, app, args[0])
			if err != nil {
				return err
			}
			ok, err := confirmAction(app, yes, fmt.Sprintf("Delete %s and everything under it?", p.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := app.Projects.Delete(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
