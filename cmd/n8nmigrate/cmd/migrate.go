package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dbsmedya/n8nmigrate/internal/config"
	"github.com/dbsmedya/n8nmigrate/internal/database"
	"github.com/dbsmedya/n8nmigrate/internal/lock"
	"github.com/dbsmedya/n8nmigrate/internal/logger"
	"github.com/dbsmedya/n8nmigrate/internal/migrator"
	"github.com/dbsmedya/n8nmigrate/internal/report"
	"github.com/dbsmedya/n8nmigrate/internal/verifier"
)

var (
	migrateTables         []string
	migrateOrdering       string
	migrateRowFailureMode string
	migrateJSONPolicy     string
	migrateProgress       bool
	migrateSkipVerify     bool
	migrateCompareSource  bool
	migrateForce          bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the n8n SQLite data into PostgreSQL",
	Long: `Migrate copies every n8n table from the SQLite file into the PostgreSQL
schema, in dependency order.

The migrate process follows these steps:
  1. Connect to SQLite (read-only) and PostgreSQL
  2. Take an advisory lock on the destination schema
  3. Copy each table in one transaction, skipping rows that fail to insert
  4. Print the per-table summary
  5. Count workflows, credentials and executions in PostgreSQL

Example:
  n8nmigrate migrate --sqlite /data/database.sqlite --pg-password secret`,
	RunE: runMigrate,
}

func init() {
	addMigrateFlags(migrateCmd.Flags())
	rootCmd.AddCommand(migrateCmd)
}

// addMigrateFlags registers the migrate flags. The root command gets them
// too since it runs a migration when called without a subcommand.
func addMigrateFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&migrateTables, "tables", nil,
		"Migrate only these tables (comma separated, order is kept)")
	fs.StringVar(&migrateOrdering, "ordering", "",
		"Table ordering (fixed, graph)")
	fs.StringVar(&migrateRowFailureMode, "row-failure-mode", "",
		"What a failed row insert undoes (savepoint, transaction)")
	fs.StringVar(&migrateJSONPolicy, "json-policy", "",
		"Handling of invalid JSON text (passthrough, reject)")
	fs.BoolVar(&migrateProgress, "progress", false,
		"Show a progress bar per table")
	fs.BoolVar(&migrateSkipVerify, "skip-verify", false,
		"Skip row count verification after the migration")
	fs.BoolVar(&migrateCompareSource, "compare-source", false,
		"Compare verified row counts against the SQLite source")
	fs.BoolVar(&migrateForce, "force", false,
		"Skip the schema advisory lock (use with caution)")
}

func verificationMethod(cfg *config.Config) verifier.VerificationMethod {
	switch {
	case cfg.Verification.SkipVerification:
		return verifier.MethodSkip
	case cfg.Verification.CompareSource:
		return verifier.MethodCompare
	default:
		return verifier.MethodCount
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	// Initialize logger
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	out := newPrinter()
	out.Header("Starting n8n SQLite to PostgreSQL Migration")
	fmt.Fprintf(outputWriter, "Time: %s\n", time.Now().Format("2006-01-02 15:04:05"))

	// Cancel the run on SIGINT/SIGTERM; the table in progress is rolled back
	ctx, stop := database.SetupSignalHandlerWithCallback(context.Background(), func(sig os.Signal) {
		log.Warnw("Received shutdown signal, rolling back the current table", "signal", sig.String())
	})
	defer stop()

	log.Infow("Connecting to SQLite database", "path", cfg.Source.Path)
	log.Infow("Connecting to PostgreSQL", "dsn", database.Redacted(&cfg.Destination))

	dbManager := database.NewManager(cfg)
	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to databases: %w", err)
	}
	defer dbManager.Close()

	if !cfg.Safety.AdvisoryLock {
		log.Warnw("Skipping advisory lock acquisition (--force flag used)", "schema", cfg.Destination.Schema)
		return executeMigration(ctx, cfg, dbManager, log, out)
	}

	schemaLock := lock.NewSchemaLock(dbManager.Destination, cfg.Destination.Schema)
	err = schemaLock.WithLock(ctx, func() error {
		log.Infow("Acquired advisory lock", "lock", schemaLock.LockName())
		return executeMigration(ctx, cfg, dbManager, log, out)
	})
	if errors.Is(err, lock.ErrLockHeld) {
		return fmt.Errorf("failed to acquire schema lock: %w", err)
	}
	return err
}

// executeMigration copies the tables, prints the summary and verifies the
// destination counts.
func executeMigration(ctx context.Context, cfg *config.Config, dbManager *database.Manager, log *logger.Logger, out *report.Printer) error {
	orch, err := migrator.NewOrchestrator(cfg, dbManager, log)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	if err := orch.Initialize(); err != nil {
		return fmt.Errorf("orchestrator initialization failed: %w", err)
	}

	var bar *report.ProgressBar
	if cfg.Migration.Progress {
		bar = report.NewProgressBar()
		orch.SetProgress(bar)
	}

	result, runErr := orch.Execute(ctx)
	if bar != nil {
		bar.Stop()
	}
	if result != nil {
		out.Summary(result)
	}
	if runErr != nil {
		if result != nil && result.Interrupted {
			out.Failure("Migration interrupted; completed tables stay committed")
			return fmt.Errorf("migration interrupted: %w", runErr)
		}
		return fmt.Errorf("migration failed: %w", runErr)
	}

	v, err := verifier.NewVerifier(dbManager.Source, dbManager.Destination,
		cfg.Destination.Schema, verificationMethod(cfg), log)
	if err != nil {
		return fmt.Errorf("failed to create verifier: %w", err)
	}
	out.Verification(v.Verify(ctx))

	out.Success("Migration completed successfully!")
	return nil
}
