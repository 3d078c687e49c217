package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/cadence/internal/cli"
	"github.com/alexanderramin/cadence/internal/config"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/httpapi"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/schedule"
	"github.com/alexanderramin/cadence/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	orgRepo := repository.NewSQLiteOrganizationRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	productRepo := repository.NewSQLiteProductRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	locks := schedule.NewRootLocks()
	recalc := schedule.NewRecalculator(uow, repository.NewScheduleBatchStore, schedule.RecalculatorConfig{
		BatchSize: cfg.Recalc.BatchSize,
		Workers:   cfg.Recalc.Workers,
	}, logger)

	var observers []service.UseCaseObserver
	if cfg.Log.Level == "debug" {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	scheduleSvc := service.NewScheduleService(orgRepo, recalc, observers...)
	app := &cli.App{
		Orgs:     service.NewOrganizationService(orgRepo),
		Projects: service.NewProjectService(projectRepo, uow, locks, observers...),
		Products: service.NewProductService(productRepo, uow, locks, observers...),
		Schedule: scheduleSvc,
		Import:   service.NewImportService(orgRepo, uow, observers...),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Serve = func(ctx context.Context) error {
		// The server always records use cases; the CLI only in debug.
		serveSchedule := scheduleSvc
		if len(observers) == 0 {
			serveSchedule = service.NewScheduleService(orgRepo, recalc, service.NewLogUseCaseObserver(logger))
		}
		router := httpapi.NewRouter(httpapi.NewHandlers(serveSchedule, logger), cfg.HTTP.AdminToken, logger)
		if cfg.HTTP.AdminToken == "" {
			logger.Warn("no admin token configured; admin endpoints reject every request")
		}
		return httpapi.NewServer(cfg.HTTP.Addr, router, cfg.HTTP.ShutdownTimeout, logger).Run(ctx)
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
