package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/n8nmigrate/internal/database"
	"github.com/dbsmedya/n8nmigrate/internal/lock"
	"github.com/dbsmedya/n8nmigrate/internal/logger"
	"github.com/dbsmedya/n8nmigrate/internal/migrator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and run preflight checks",
	Long: `Validate checks the configuration and runs preflight checks against
both databases.

Checks performed:
  - Configuration syntax and required fields
  - Database connectivity (SQLite and PostgreSQL)
  - Table order against the declared dependencies
  - Destination schema existence
  - Another migration holding the schema lock
  - Tables missing on either side

Example:
  n8nmigrate validate --sqlite /data/database.sqlite --pg-password secret`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	// Initialize logger
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Starting validation checks...")

	out := newPrinter()
	out.Header("Configuration Validation")
	fmt.Fprintf(outputWriter, "Config file: %s\n", displayConfigFile())
	fmt.Fprintf(outputWriter, "Source:      %s\n", cfg.Source.Path)
	fmt.Fprintf(outputWriter, "Destination: %s (schema %s)\n\n",
		database.Redacted(&cfg.Destination), cfg.Destination.Schema)

	order, err := migrator.ResolveOrder(cfg.Migration)
	if err != nil {
		return fmt.Errorf("failed to resolve table order: %w", err)
	}

	ctx := context.Background()

	dbManager := database.NewManager(cfg)
	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to databases: %w", err)
	}
	defer dbManager.Close()
	fmt.Fprintln(outputWriter, "✅ Connected to both databases")

	if err := checkRunningMigration(ctx, dbManager.Destination, cfg.Destination.Schema); err != nil {
		return err
	}

	checker, err := migrator.NewPreflightChecker(dbManager.Source, dbManager.Destination, cfg.Destination.Schema, log)
	if err != nil {
		return fmt.Errorf("failed to create preflight checker: %w", err)
	}

	preflight, err := checker.RunAllChecks(ctx, order)
	if err != nil {
		return fmt.Errorf("preflight checks failed: %w", err)
	}
	fmt.Fprintf(outputWriter, "✅ Table order satisfies all dependencies (%d tables)\n", len(order))

	if len(preflight.MissingDestination) > 0 {
		fmt.Fprintf(outputWriter, "⚠️  Missing in PostgreSQL, will be skipped: %s\n",
			strings.Join(preflight.MissingDestination, ", "))
	}
	if len(preflight.MissingSource) > 0 {
		fmt.Fprintf(outputWriter, "ℹ️  Missing in SQLite, counted as empty: %s\n",
			strings.Join(preflight.MissingSource, ", "))
	}

	out.Success("All checks passed")
	return nil
}

// checkRunningMigration reports whether another run holds the schema's
// advisory lock. A running migration is a warning, not a failure.
func checkRunningMigration(ctx context.Context, db *sql.DB, schema string) error {
	running, err := lock.IsMigrationRunning(ctx, db, schema)
	if err != nil {
		return fmt.Errorf("failed to check for a running migration: %w", err)
	}
	if running {
		fmt.Fprintf(outputWriter, "⚠️  Another migration into schema %s is running\n", schema)
		return nil
	}
	fmt.Fprintf(outputWriter, "✅ No other migration into schema %s is running\n", schema)
	return nil
}

func displayConfigFile() string {
	if f := GetConfigFile(); f != "" {
		return f
	}
	return "(none, using defaults and flags)"
}
