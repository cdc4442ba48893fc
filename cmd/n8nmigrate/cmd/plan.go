package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/n8nmigrate/internal/config"
	"github.com/dbsmedya/n8nmigrate/internal/migrator"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the table migration order",
	Long: `Plan resolves the table order and prints it with each table's
dependencies and the column renames applied to it. No database is touched.

Example:
  n8nmigrate plan --ordering graph`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&migrateOrdering, "ordering", "",
		"Table ordering (fixed, graph)")
	planCmd.Flags().StringSliceVar(&migrateTables, "tables", nil,
		"Plan only these tables (comma separated)")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	order, err := migrator.ResolveOrder(cfg.Migration)
	if err != nil {
		return fmt.Errorf("failed to resolve table order: %w", err)
	}

	ordering := cfg.Migration.Ordering
	if ordering == "" {
		ordering = config.OrderingFixed
	}

	newPrinter().Plan(ordering, order)
	return nil
}
