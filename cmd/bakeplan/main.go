package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bakeplan/bakeplan/pkg/infrastructure/config"
	"github.com/bakeplan/bakeplan/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing CSV files",
		)
		databasePath = flag.String("db", "", "SQLite database for stock and reservations (optional)")
		outputDir    = flag.String("output", "", "Output directory for results (optional)")
		format       = flag.String("format", "", "Output format: text, json")
		configFile   = flag.String("config", "", "Config file path (optional)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// File and environment configuration first, explicit flags on top.
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *scenarioDir != "" {
		cfg.ScenarioDir = *scenarioDir
	}
	if *databasePath != "" {
		cfg.DatabasePath = *databasePath
	}
	if *format != "" {
		cfg.Format = *format
	}

	logger := newLogger(cfg.LogLevel, *verbose)

	cmdConfig := commands.Config{
		ScenarioDir:  cfg.ScenarioDir,
		DatabasePath: cfg.DatabasePath,
		OutputDir:    *outputDir,
		Format:       cfg.Format,
		Verbose:      *verbose,
		Help:         *help,
	}

	cmd := commands.NewPlanCommand(cmdConfig, logger)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
