package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/n8nmigrate/internal/config"
	"github.com/dbsmedya/n8nmigrate/internal/report"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
	noColor   bool

	sqlitePath string

	pgDriver   string
	pgHost     string
	pgPort     int
	pgDatabase string
	pgUser     string
	pgPassword string
	pgSchema   string
	pgSSLMode  string
)

// outputWriter receives report output; tests replace it with a buffer.
var outputWriter io.Writer = os.Stdout

// errorWriter receives the failure report printed by Execute.
var errorWriter io.Writer = os.Stderr

// exitFunc terminates the process after a failure.
var exitFunc = os.Exit

func setOutputWriter(w io.Writer) {
	outputWriter = w
}

func resetOutputWriter() {
	outputWriter = os.Stdout
}

var rootCmd = &cobra.Command{
	Use:   "n8nmigrate",
	Short: "n8n SQLite to PostgreSQL migrator",
	Long: `Copies the data of an n8n SQLite database into an existing PostgreSQL
schema, table by table in dependency order.

Features:
  - Fixed catalog order or Kahn topological order over declared dependencies
  - Column renames from SQLite lowercase names to canonical camelCase
  - Boolean coercion and JSON validation
  - Per-row failure isolation with savepoints (or whole-transaction rollback)
  - ON CONFLICT DO NOTHING so reruns are idempotent
  - Post-migration row count verification

Running n8nmigrate without a subcommand is the same as "n8nmigrate migrate".`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMigrate,
}

// Execute runs the root command. Any error is printed with its cause chain
// and a stack trace, and the process exits with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printFailure(errorWriter, err)
		exitFunc(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()

	// Config file flag
	flags.StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file (optional)")

	// Logging overrides
	flags.StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
	flags.BoolVar(&noColor, "no-color", false,
		"Disable colored report output")

	// Source
	flags.StringVar(&sqlitePath, "sqlite", "",
		"Path to the n8n SQLite database file")

	// Destination
	flags.StringVar(&pgDriver, "pg-driver", "",
		"PostgreSQL driver (pgx, postgres) (default pgx)")
	flags.StringVar(&pgHost, "pg-host", "",
		"PostgreSQL host (default postgres)")
	flags.IntVar(&pgPort, "pg-port", 0,
		"PostgreSQL port (default 5432)")
	flags.StringVar(&pgDatabase, "pg-db", "",
		"PostgreSQL database (default chatsuite)")
	flags.StringVar(&pgUser, "pg-user", "",
		"PostgreSQL user (default admin)")
	flags.StringVar(&pgPassword, "pg-password", "",
		"PostgreSQL password")
	flags.StringVar(&pgSchema, "pg-schema", "",
		"PostgreSQL schema holding the n8n tables (default n8n)")
	flags.StringVar(&pgSSLMode, "pg-sslmode", "",
		"PostgreSQL sslmode (default disable)")

	addMigrateFlags(rootCmd.Flags())
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() config.Overrides {
	return config.Overrides{
		LogLevel:       logLevel,
		LogFormat:      logFormat,
		SourcePath:     sqlitePath,
		Driver:         pgDriver,
		Host:           pgHost,
		Port:           pgPort,
		Database:       pgDatabase,
		User:           pgUser,
		Password:       pgPassword,
		Schema:         pgSchema,
		SSLMode:        pgSSLMode,
		Ordering:       migrateOrdering,
		RowFailureMode: migrateRowFailureMode,
		JSONPolicy:     migrateJSONPolicy,
		Tables:         migrateTables,
		Progress:       migrateProgress,
		SkipVerify:     migrateSkipVerify,
		CompareSource:  migrateCompareSource,
		NoLock:         migrateForce,
	}
}

// loadConfig reads the config file, applies flag overrides and, when
// validate is set, checks the result.
func loadConfig(validate bool) (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(GetCLIOverrides())

	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func colorEnabled() bool {
	return !noColor && color.SupportColor()
}

func newPrinter() *report.Printer {
	return report.NewPrinter(outputWriter, colorEnabled())
}

// printFailure writes the error and each wrapped cause.
func printFailure(w io.Writer, err error) {
	fmt.Fprintf(w, "\n❌ Migration failed: %v\n", err)

	depth := 0
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		depth++
		fmt.Fprintf(w, "  %d. caused by: %v\n", depth, cause)
	}
}
