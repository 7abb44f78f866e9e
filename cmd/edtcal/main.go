package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/rvergnes/edtcal/internal/cli"
	"github.com/rvergnes/edtcal/internal/config"
	"github.com/rvergnes/edtcal/internal/db"
	"github.com/rvergnes/edtcal/internal/repository"
	"github.com/rvergnes/edtcal/internal/service"
	"github.com/rvergnes/edtcal/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.edtcal/edtcal.db
	dbPath := os.Getenv("EDTCAL_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".edtcal", "edtcal.db")
	}

	logLevel := slog.LevelWarn
	if os.Getenv("EDTCAL_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// Plain output when not writing to a terminal.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		os.Setenv("NO_COLOR", "1")
	}

	cfg := config.Load()

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	calendarRepo := repository.NewSQLiteCalendarRepo(database)
	kvRepo := repository.NewSQLiteKVRepo(database)
	rulesRepo := repository.NewSQLiteRulesRepo(kvRepo)

	// Wire sync layer
	parser := sync.NewParser(logger)
	defer parser.Close()
	coordinator := sync.NewCoordinator(cfg, calendarRepo, parser, logger)

	app := &cli.App{
		Calendars: service.NewCalendarService(calendarRepo, kvRepo, parser, coordinator),
		Events:    service.NewEventService(calendarRepo, rulesRepo, kvRepo),
		Rules:     service.NewRulesService(rulesRepo),
		Sync:      coordinator,
	}

	// A CLI invocation is one-shot: run the startup due-scan only when
	// asked to serve, via the refresher's eager pass.
	if os.Getenv("EDTCAL_AUTO_REFRESH") != "" {
		refresher := sync.NewAutoRefresher(coordinator, cfg.AutoScanSchedule, logger)
		if err := refresher.Start(context.Background()); err != nil {
			return fmt.Errorf("starting auto-refresh: %w", err)
		}
		defer refresher.Stop()
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
