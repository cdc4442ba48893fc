package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
source:
  path: /var/lib/n8n/database.sqlite

destination:
  host: pg.local
  port: 5433
  user: n8n
  password: n8npass
  database: automation
  schema: public
  sslmode: require

migration:
  ordering: graph
  row_failure_mode: transaction
  json_policy: reject
  tables:
    - user
    - workflow_entity

safety:
  advisory_lock: false

verification:
  compare_source: true

logging:
  level: debug
  format: json
  output: stderr
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Source.Path != "/var/lib/n8n/database.sqlite" {
		t.Errorf("expected source path, got %s", cfg.Source.Path)
	}
	if cfg.Destination.Host != "pg.local" {
		t.Errorf("expected destination host 'pg.local', got %s", cfg.Destination.Host)
	}
	if cfg.Destination.Port != 5433 {
		t.Errorf("expected destination port 5433, got %d", cfg.Destination.Port)
	}
	if cfg.Destination.Schema != "public" {
		t.Errorf("expected schema 'public', got %s", cfg.Destination.Schema)
	}
	if cfg.Destination.SSLMode != "require" {
		t.Errorf("expected sslmode 'require', got %s", cfg.Destination.SSLMode)
	}
	// Not in the file, keeps default
	if cfg.Destination.Driver != DriverPgx {
		t.Errorf("expected default driver, got %s", cfg.Destination.Driver)
	}

	if cfg.Migration.Ordering != OrderingGraph {
		t.Errorf("expected ordering 'graph', got %s", cfg.Migration.Ordering)
	}
	if cfg.Migration.RowFailureMode != RowFailureTransaction {
		t.Errorf("expected row_failure_mode 'transaction', got %s", cfg.Migration.RowFailureMode)
	}
	if cfg.Migration.JSONPolicy != JSONReject {
		t.Errorf("expected json_policy 'reject', got %s", cfg.Migration.JSONPolicy)
	}
	if len(cfg.Migration.Tables) != 2 || cfg.Migration.Tables[1] != "workflow_entity" {
		t.Errorf("unexpected tables: %v", cfg.Migration.Tables)
	}
	if cfg.Safety.AdvisoryLock {
		t.Errorf("expected advisory lock disabled")
	}
	if !cfg.Verification.CompareSource {
		t.Errorf("expected compare_source enabled")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Output != "stderr" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Destination.Host != "postgres" {
		t.Errorf("expected defaults, got host %s", cfg.Destination.Host)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	t.Setenv("TEST_PG_HOST", "env-host")
	t.Setenv("TEST_PG_PASS", "env-pass")
	t.Setenv("TEST_SQLITE", "/tmp/env.sqlite")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-env.yaml")

	configContent := `
source:
  path: ${TEST_SQLITE}
destination:
  host: ${TEST_PG_HOST}
  password: $TEST_PG_PASS
  user: ${UNSET_TEST_VARIABLE}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Source.Path != "/tmp/env.sqlite" {
		t.Errorf("expected source path from env, got %s", cfg.Source.Path)
	}
	if cfg.Destination.Host != "env-host" {
		t.Errorf("expected host from env, got %s", cfg.Destination.Host)
	}
	if cfg.Destination.Password != "env-pass" {
		t.Errorf("expected password from env, got %s", cfg.Destination.Password)
	}
	if cfg.Destination.User != "${UNSET_TEST_VARIABLE}" {
		t.Errorf("expected unset variable to stay literal, got %s", cfg.Destination.User)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	v.Set("destination.schema", "custom")
	v.Set("migration.json_policy", "reject")

	cfg, err := LoadFromViper(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Destination.Schema != "custom" {
		t.Errorf("expected schema 'custom', got %s", cfg.Destination.Schema)
	}
	if cfg.Migration.JSONPolicy != JSONReject {
		t.Errorf("expected json policy 'reject', got %s", cfg.Migration.JSONPolicy)
	}
	if cfg.Destination.Port != 5432 {
		t.Errorf("expected default port kept, got %d", cfg.Destination.Port)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("EXPAND_ME", "value")

	tests := []struct {
		input    string
		expected string
	}{
		{"${EXPAND_ME}", "value"},
		{"$EXPAND_ME", "value"},
		{"prefix-${EXPAND_ME}-suffix", "prefix-value-suffix"},
		{"no variables", "no variables"},
		{"${NOT_DEFINED_ANYWHERE}", "${NOT_DEFINED_ANYWHERE}"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandEnvVar(tt.input); got != tt.expected {
				t.Errorf("expandEnvVar(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
