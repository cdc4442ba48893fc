package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Destination defaults match the documented CLI defaults
	if cfg.Destination.Host != "postgres" {
		t.Errorf("expected destination host 'postgres', got %s", cfg.Destination.Host)
	}
	if cfg.Destination.Port != 5432 {
		t.Errorf("expected destination port 5432, got %d", cfg.Destination.Port)
	}
	if cfg.Destination.Database != "chatsuite" {
		t.Errorf("expected destination database 'chatsuite', got %s", cfg.Destination.Database)
	}
	if cfg.Destination.User != "admin" {
		t.Errorf("expected destination user 'admin', got %s", cfg.Destination.User)
	}
	if cfg.Destination.Schema != "n8n" {
		t.Errorf("expected destination schema 'n8n', got %s", cfg.Destination.Schema)
	}
	if cfg.Destination.Driver != DriverPgx {
		t.Errorf("expected destination driver %q, got %s", DriverPgx, cfg.Destination.Driver)
	}
	if cfg.Destination.Password != "" {
		t.Errorf("expected no default password")
	}

	// Migration defaults
	if cfg.Migration.Ordering != OrderingFixed {
		t.Errorf("expected ordering %q, got %s", OrderingFixed, cfg.Migration.Ordering)
	}
	if cfg.Migration.RowFailureMode != RowFailureSavepoint {
		t.Errorf("expected row_failure_mode %q, got %s", RowFailureSavepoint, cfg.Migration.RowFailureMode)
	}
	if cfg.Migration.JSONPolicy != JSONPassthrough {
		t.Errorf("expected json_policy %q, got %s", JSONPassthrough, cfg.Migration.JSONPolicy)
	}
	if len(cfg.Migration.Tables) != 0 {
		t.Errorf("expected no table filter by default, got %v", cfg.Migration.Tables)
	}

	if !cfg.Safety.AdvisoryLock {
		t.Errorf("expected advisory lock enabled by default")
	}
	if cfg.Verification.SkipVerification {
		t.Errorf("expected verification enabled by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected logging format 'text', got %s", cfg.Logging.Format)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()

	cfg.ApplyOverrides(Overrides{
		LogLevel:       "debug",
		SourcePath:     "/data/database.sqlite",
		Host:           "db.internal",
		Port:           6543,
		Password:       "secret",
		Schema:         "automation",
		RowFailureMode: RowFailureTransaction,
		Tables:         []string{"user", "workflow_entity"},
		SkipVerify:     true,
		NoLock:         true,
	})

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level override, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected log format untouched, got %s", cfg.Logging.Format)
	}
	if cfg.Source.Path != "/data/database.sqlite" {
		t.Errorf("expected source path override, got %s", cfg.Source.Path)
	}
	if cfg.Destination.Host != "db.internal" || cfg.Destination.Port != 6543 {
		t.Errorf("expected host/port override, got %s:%d", cfg.Destination.Host, cfg.Destination.Port)
	}
	if cfg.Destination.User != "admin" {
		t.Errorf("expected user default kept, got %s", cfg.Destination.User)
	}
	if cfg.Destination.Password != "secret" {
		t.Errorf("expected password override")
	}
	if cfg.Destination.Schema != "automation" {
		t.Errorf("expected schema override, got %s", cfg.Destination.Schema)
	}
	if cfg.Migration.RowFailureMode != RowFailureTransaction {
		t.Errorf("expected row failure mode override, got %s", cfg.Migration.RowFailureMode)
	}
	if len(cfg.Migration.Tables) != 2 {
		t.Errorf("expected 2 tables, got %v", cfg.Migration.Tables)
	}
	if !cfg.Verification.SkipVerification {
		t.Errorf("expected verification skipped")
	}
	if cfg.Safety.AdvisoryLock {
		t.Errorf("expected advisory lock disabled")
	}
}

func TestApplyOverrides_EmptyKeepsValues(t *testing.T) {
	cfg := DefaultConfig()
	before := *cfg

	cfg.ApplyOverrides(Overrides{})

	if cfg.Destination != before.Destination {
		t.Errorf("destination changed by empty overrides: %+v", cfg.Destination)
	}
	if cfg.Logging != before.Logging {
		t.Errorf("logging changed by empty overrides: %+v", cfg.Logging)
	}
	if cfg.Safety != before.Safety {
		t.Errorf("safety changed by empty overrides: %+v", cfg.Safety)
	}
}
