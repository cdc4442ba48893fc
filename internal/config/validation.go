package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if c.Source.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "source.path",
			Message: "path to the SQLite database is required (--sqlite)",
		})
	}

	errors = append(errors, c.validateDestination()...)
	errors = append(errors, c.validateMigration()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateDestination() ValidationErrors {
	var errors ValidationErrors
	db := &c.Destination

	validDrivers := map[string]bool{DriverPgx: true, DriverPq: true, "": true}
	if !validDrivers[db.Driver] {
		errors = append(errors, ValidationError{
			Field:   "destination.driver",
			Message: "driver must be 'pgx' or 'postgres'",
		})
	}

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "destination.host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "destination.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   "destination.user",
			Message: "user is required",
		})
	}

	if db.Password == "" {
		errors = append(errors, ValidationError{
			Field:   "destination.password",
			Message: "password is required (--pg-password)",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "destination.database",
			Message: "database name is required",
		})
	}

	if db.Schema == "" {
		errors = append(errors, ValidationError{
			Field:   "destination.schema",
			Message: "schema is required",
		})
	}

	validSSL := map[string]bool{
		"disable": true, "allow": true, "prefer": true, "require": true,
		"verify-ca": true, "verify-full": true, "": true,
	}
	if !validSSL[db.SSLMode] {
		errors = append(errors, ValidationError{
			Field:   "destination.sslmode",
			Message: "sslmode must be one of disable, allow, prefer, require, verify-ca, verify-full",
		})
	}

	if db.ConnectTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "destination.connect_timeout",
			Message: "connect_timeout cannot be negative",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "destination.max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	// The advisory lock pins one pooled connection for the whole run
	if c.Safety.AdvisoryLock && db.MaxConnections == 1 {
		errors = append(errors, ValidationError{
			Field:   "destination.max_connections",
			Message: "max_connections must be at least 2 while safety.advisory_lock is enabled",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "destination.max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateMigration() ValidationErrors {
	var errors ValidationErrors

	validOrderings := map[string]bool{OrderingFixed: true, OrderingGraph: true, "": true}
	if !validOrderings[c.Migration.Ordering] {
		errors = append(errors, ValidationError{
			Field:   "migration.ordering",
			Message: "ordering must be 'fixed' or 'graph'",
		})
	}

	validModes := map[string]bool{RowFailureSavepoint: true, RowFailureTransaction: true, "": true}
	if !validModes[c.Migration.RowFailureMode] {
		errors = append(errors, ValidationError{
			Field:   "migration.row_failure_mode",
			Message: "row_failure_mode must be 'savepoint' or 'transaction'",
		})
	}

	validPolicies := map[string]bool{JSONPassthrough: true, JSONReject: true, "": true}
	if !validPolicies[c.Migration.JSONPolicy] {
		errors = append(errors, ValidationError{
			Field:   "migration.json_policy",
			Message: "json_policy must be 'passthrough' or 'reject'",
		})
	}

	for i, table := range c.Migration.Tables {
		if strings.TrimSpace(table) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("migration.tables[%d]", i),
				Message: "table name cannot be empty",
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
