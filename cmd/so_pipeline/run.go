package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/stackoverflow-pipeline/internal/config"
	"github.com/jonathan/stackoverflow-pipeline/internal/csvout"
	"github.com/jonathan/stackoverflow-pipeline/internal/db"
	"github.com/jonathan/stackoverflow-pipeline/internal/observability"
	"github.com/jonathan/stackoverflow-pipeline/internal/pipeline"
	"github.com/jonathan/stackoverflow-pipeline/internal/stackexchange"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Fetch all resources and write one CSV per resource",
	Long: `Runs the extraction pipeline end-to-end: fetch -> date normalization -> CSV.

Each resource is processed independently; a failed fetch or write is logged
and the remaining resources are still attempted. The command exits 0 even
when individual resources fail.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath  string
	runOutputDir   string
	runBaseURL     string
	runLogFile     string
	runDatabaseURL string
	runVerbose     bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runOutputDir, "output-dir", "o", "", "Output directory for CSV files")
	runCommand.Flags().StringVar(&runBaseURL, "base-url", "", "Stack Exchange API base URL")
	runCommand.Flags().StringVar(&runLogFile, "log-file", "", "Log file path (empty disables the file sink)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print debug-level log output")

	// Database URL for run-metadata persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = runBaseURL
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = runLogFile
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		OutputDir: "output",
		BaseURL:   stackexchange.DefaultBaseURL,
		LogFile:   "pipeline.log",
	})

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Database URL is optional; runs without it skip persistence
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	logger, closeLog, err := observability.NewLogger(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	var store *db.Store
	if cfg.DatabaseURL != "" {
		store, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("failed to connect to database, continuing without persistence", "error", err)
		} else {
			defer store.Close()
		}
	}

	summary := pipeline.Run(ctx, pipeline.Options{
		OutputDir: cfg.OutputDir,
		BaseURL:   cfg.BaseURL,
		Fetcher:   stackexchange.NewClient(cfg.BaseURL, logger),
		Writer:    csvout.NewWriter(csvout.FirstRecordColumns),
		Store:     store,
		Logger:    logger,
	})

	// Partial failure is reported through the log only; the process
	// still exits 0.
	if len(summary.Failed) > 0 {
		logger.Warn("some resources were not saved", "resources", summary.Failed)
	}
	return nil
}
