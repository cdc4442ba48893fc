package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
// An empty path yields the defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) {
	cfg.Source.Path = expandEnvVar(cfg.Source.Path)

	cfg.Destination.Host = expandEnvVar(cfg.Destination.Host)
	cfg.Destination.User = expandEnvVar(cfg.Destination.User)
	cfg.Destination.Password = expandEnvVar(cfg.Destination.Password)
	cfg.Destination.Database = expandEnvVar(cfg.Destination.Database)
	cfg.Destination.Schema = expandEnvVar(cfg.Destination.Schema)

	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// Overrides carries CLI flag values. Zero values mean "not set".
type Overrides struct {
	LogLevel  string
	LogFormat string

	SourcePath string

	Driver   string
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Schema   string
	SSLMode  string

	Ordering       string
	RowFailureMode string
	JSONPolicy     string
	Tables         []string
	Progress       bool

	SkipVerify    bool
	CompareSource bool
	NoLock        bool
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.SourcePath != "" {
		c.Source.Path = o.SourcePath
	}

	if o.Driver != "" {
		c.Destination.Driver = o.Driver
	}
	if o.Host != "" {
		c.Destination.Host = o.Host
	}
	if o.Port > 0 {
		c.Destination.Port = o.Port
	}
	if o.Database != "" {
		c.Destination.Database = o.Database
	}
	if o.User != "" {
		c.Destination.User = o.User
	}
	if o.Password != "" {
		c.Destination.Password = o.Password
	}
	if o.Schema != "" {
		c.Destination.Schema = o.Schema
	}
	if o.SSLMode != "" {
		c.Destination.SSLMode = o.SSLMode
	}

	if o.Ordering != "" {
		c.Migration.Ordering = o.Ordering
	}
	if o.RowFailureMode != "" {
		c.Migration.RowFailureMode = o.RowFailureMode
	}
	if o.JSONPolicy != "" {
		c.Migration.JSONPolicy = o.JSONPolicy
	}
	if len(o.Tables) > 0 {
		c.Migration.Tables = append([]string(nil), o.Tables...)
	}
	if o.Progress {
		c.Migration.Progress = true
	}

	if o.SkipVerify {
		c.Verification.SkipVerification = true
	}
	if o.CompareSource {
		c.Verification.CompareSource = true
	}
	if o.NoLock {
		c.Safety.AdvisoryLock = false
	}
}
