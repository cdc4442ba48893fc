// Package config provides configuration structures and loading for n8nmigrate.
package config

// Ordering strategies for the table migration order.
const (
	OrderingFixed = "fixed" // hardcoded catalog order
	OrderingGraph = "graph" // Kahn topological sort over declared dependencies
)

// Row failure modes decide what is undone when a single row insert fails.
const (
	// RowFailureSavepoint wraps every insert in a SAVEPOINT so only the failing row is undone.
	RowFailureSavepoint = "savepoint"
	// RowFailureTransaction rolls back the whole table transaction and starts a new one.
	RowFailureTransaction = "transaction"
)

// JSON policies for text values stored in JSON-typed columns.
const (
	JSONPassthrough = "passthrough" // validate, never mutate, never reject
	JSONReject      = "reject"      // invalid JSON marks the row as skipped
)

// Destination driver names registered with database/sql.
const (
	DriverPgx = "pgx"
	DriverPq  = "postgres"
)

// Config represents the complete application configuration.
type Config struct {
	Source       SourceConfig       `yaml:"source" mapstructure:"source"`
	Destination  DatabaseConfig     `yaml:"destination" mapstructure:"destination"`
	Migration    MigrationConfig    `yaml:"migration" mapstructure:"migration"`
	Safety       SafetyConfig       `yaml:"safety" mapstructure:"safety"`
	Verification VerificationConfig `yaml:"verification" mapstructure:"verification"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// SourceConfig points at the n8n SQLite database file.
type SourceConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DatabaseConfig represents a PostgreSQL connection configuration.
type DatabaseConfig struct {
	Driver             string `yaml:"driver" mapstructure:"driver"` // pgx or postgres
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	Schema             string `yaml:"schema" mapstructure:"schema"`
	SSLMode            string `yaml:"sslmode" mapstructure:"sslmode"`
	ConnectTimeout     int    `yaml:"connect_timeout" mapstructure:"connect_timeout"` // seconds
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// MigrationConfig controls how tables and rows are copied.
type MigrationConfig struct {
	Ordering       string   `yaml:"ordering" mapstructure:"ordering"`
	RowFailureMode string   `yaml:"row_failure_mode" mapstructure:"row_failure_mode"`
	JSONPolicy     string   `yaml:"json_policy" mapstructure:"json_policy"`
	Tables         []string `yaml:"tables" mapstructure:"tables"` // empty means every catalog table
	Progress       bool     `yaml:"progress" mapstructure:"progress"`
}

// SafetyConfig represents safety settings for a migration run.
type SafetyConfig struct {
	AdvisoryLock bool `yaml:"advisory_lock" mapstructure:"advisory_lock"`
}

// VerificationConfig represents post-migration row count checks.
type VerificationConfig struct {
	SkipVerification bool `yaml:"skip_verification" mapstructure:"skip_verification"`
	CompareSource    bool `yaml:"compare_source" mapstructure:"compare_source"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Destination: DatabaseConfig{
			Driver:             DriverPgx,
			Host:               "postgres",
			Port:               5432,
			User:               "admin",
			Database:           "chatsuite",
			Schema:             "n8n",
			SSLMode:            "disable",
			ConnectTimeout:     10,
			MaxConnections:     4,
			MaxIdleConnections: 2,
		},
		Migration: MigrationConfig{
			Ordering:       OrderingFixed,
			RowFailureMode: RowFailureSavepoint,
			JSONPolicy:     JSONPassthrough,
		},
		Safety: SafetyConfig{
			AdvisoryLock: true,
		},
		Verification: VerificationConfig{
			SkipVerification: false,
			CompareSource:    false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}
