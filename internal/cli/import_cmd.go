package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a root project with its subprojects and items from a YAML or JSON file",
		Long: `Create a root project with its subprojects and items from a YAML or JSON file.

Example file:

  project:
    short_id: WEB01
    name: Website
  subprojects:
    - ref: checkout
      name: Checkout
  items:
    - owner: checkout
      name: Cart
      start: "2025-01-10"
      end: "2025-02-01"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			orgID, err := resolveOrgID(ctx, app, orgFlag(cmd))
			if err != nil {
				return err
			}
			res, err := app.Import.ImportProject(ctx, orgID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s [%s]: %d subprojects, %d items\n",
				res.Project.Name, res.Project.DisplayID(), res.SubprojectCount, res.ProductCount)
			return printRollup(cmd, app, res.Project.ID)
		},
	}
}
