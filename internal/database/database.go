// Package database provides connection management for the SQLite source and
// the PostgreSQL destination.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver "pgx"
	_ "github.com/lib/pq"              // PostgreSQL driver "postgres"
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/dbsmedya/n8nmigrate/internal/config"
)

// SourceDriver is the database/sql driver name for the n8n SQLite file.
const SourceDriver = "sqlite3"

// Manager holds the source and destination handles for one run.
type Manager struct {
	Source      *sql.DB
	Destination *sql.DB
	config      *config.Config
}

// NewManager creates a new database manager from configuration.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config: cfg,
	}
}

// Connect opens and pings both databases. There are no retries: either
// connection failing aborts the run.
func (m *Manager) Connect(ctx context.Context) error {
	if err := m.ConnectSource(ctx); err != nil {
		return err
	}

	if err := m.ConnectDestination(ctx); err != nil {
		m.Source.Close()
		m.Source = nil
		return err
	}

	return nil
}

// ConnectSource opens the SQLite file read-only.
func (m *Manager) ConnectSource(ctx context.Context) error {
	path := m.config.Source.Path
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("failed to connect to source database: %s is a directory", path)
	}

	db, err := sql.Open(SourceDriver, BuildSourceDSN(path))
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	// One reader is enough for a sequential copy
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to source database: %w", err)
	}

	m.Source = db
	return nil
}

// ConnectDestination opens the PostgreSQL database with the configured driver.
func (m *Manager) ConnectDestination(ctx context.Context) error {
	cfg := &m.config.Destination

	db, err := sql.Open(DriverName(cfg), BuildDSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to destination database: %w", err)
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to destination database %s: %w", Redacted(cfg), err)
	}

	m.Destination = db
	return nil
}

// DriverName returns the database/sql driver for the destination, defaulting to pgx.
func DriverName(cfg *config.DatabaseConfig) string {
	if cfg.Driver == "" {
		return config.DriverPgx
	}
	return cfg.Driver
}

// BuildDSN constructs a PostgreSQL URL understood by both pgx and lib/pq.
func BuildDSN(cfg *config.DatabaseConfig) string {
	return buildURL(cfg, url.UserPassword(cfg.User, cfg.Password))
}

// Redacted returns the DSN with the password masked, for error messages.
func Redacted(cfg *config.DatabaseConfig) string {
	if cfg.Password == "" {
		return buildURL(cfg, url.User(cfg.User))
	}
	return buildURL(cfg, url.UserPassword(cfg.User, "xxxxx"))
}

func buildURL(cfg *config.DatabaseConfig, user *url.Userinfo) string {
	u := url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Database,
	}

	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	if cfg.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(cfg.ConnectTimeout))
	}
	q.Set("application_name", "n8nmigrate")
	u.RawQuery = q.Encode()

	return u.String()
}

// BuildSourceDSN returns a read-only SQLite URI for the given file. Each
// path segment is escaped so '#', '?' and '%' stay part of the file name.
func BuildSourceDSN(path string) string {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "file:" + strings.Join(segments, "/") + "?mode=ro"
}

// Close closes all database connections gracefully.
func (m *Manager) Close() error {
	var errs []error

	if m.Destination != nil {
		if err := m.Destination.Close(); err != nil {
			errs = append(errs, fmt.Errorf("destination close: %w", err))
		}
	}

	if m.Source != nil {
		if err := m.Source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("source close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing connections: %v", errs)
	}
	return nil
}

// Ping verifies all connections are alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.Source != nil {
		if err := m.Source.PingContext(ctx); err != nil {
			return fmt.Errorf("source ping failed: %w", err)
		}
	}

	if m.Destination != nil {
		if err := m.Destination.PingContext(ctx); err != nil {
			return fmt.Errorf("destination ping failed: %w", err)
		}
	}

	return nil
}
