package cli

import (
	"context"
	"os"

	"github.com/alexanderramin/cadence/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and process hooks CLI commands use.
type App struct {
	Orgs     service.OrganizationService
	Projects service.ProjectService
	Products service.ProductService
	Schedule service.ScheduleService
	Import   service.ImportService

	// Serve runs the admin HTTP server until ctx is done.
	Serve func(ctx context.Context) error
	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// Confirm asks a yes/no question; nil uses a huh form.
	Confirm func(title string) (bool, error)
}

// NewRootCmd creates the top-level "cadence" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "cadence",
		Short:         "Schedule rollup for project hierarchies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("org", os.Getenv("CADENCE_ORG"), "Organization ID or name (env CADENCE_ORG)")

	root.AddCommand(
		newServeCmd(app),
		newRecalcCmd(app),
		newOrgCmd(app),
		newProjectCmd(app),
		newProductCmd(app),
		newImportCmd(app),
	)
	return root
}
