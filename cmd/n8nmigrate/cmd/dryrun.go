package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/n8nmigrate/internal/database"
	"github.com/dbsmedya/n8nmigrate/internal/logger"
	"github.com/dbsmedya/n8nmigrate/internal/migrator"
)

var dryrunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Report what a migration would copy without writing anything",
	Long: `Dry-run connects to both databases and reports, per table, the source
row count, whether the destination table exists, and which source columns
map to destination columns. Nothing is written.

Example:
  n8nmigrate dry-run --sqlite /data/database.sqlite --pg-password secret`,
	RunE: runDryrun,
}

func init() {
	dryrunCmd.Flags().StringVar(&migrateOrdering, "ordering", "",
		"Table ordering (fixed, graph)")
	dryrunCmd.Flags().StringSliceVar(&migrateTables, "tables", nil,
		"Inspect only these tables (comma separated)")

	rootCmd.AddCommand(dryrunCmd)
}

func runDryrun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	// Initialize logger
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

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

	estimator := migrator.NewEstimator(dbManager.Source, dbManager.Destination, cfg.Destination.Schema, log)
	result, err := estimator.Estimate(ctx, order)
	if err != nil {
		return fmt.Errorf("estimation failed: %w", err)
	}

	newPrinter().DryRun(result)
	return nil
}
