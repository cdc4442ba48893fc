// Package lock provides PostgreSQL advisory locking so two migrations never
// write into the same destination schema at once.
package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrLockHeld is returned when another session already holds the lock.
var ErrLockHeld = errors.New("advisory lock is held by another session")

// AdvisoryLock is a session-level PostgreSQL advisory lock. Session locks
// belong to one backend connection, so the lock pins a dedicated *sql.Conn
// from the pool for as long as it is held.
type AdvisoryLock struct {
	db       *sql.DB
	conn     *sql.Conn
	lockName string
	held     bool
}

// NewAdvisoryLock creates a new advisory lock with the given name.
// The lock is not acquired until TryAcquire is called.
func NewAdvisoryLock(db *sql.DB, lockName string) *AdvisoryLock {
	return &AdvisoryLock{
		db:       db,
		lockName: lockName,
	}
}

// TryAcquire attempts to take the lock without waiting.
// Returns false if another session holds it. The key is hashed server-side
// with hashtext() so any lock name maps onto the bigint key space.
func (a *AdvisoryLock) TryAcquire(ctx context.Context) (bool, error) {
	if a.held {
		return true, nil
	}

	conn, err := a.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to reserve connection for lock %q: %w", a.lockName, err)
	}

	var acquired sql.NullBool
	err = conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock(hashtext($1))", a.lockName).Scan(&acquired)
	if err != nil {
		conn.Close()
		return false, fmt.Errorf("failed to execute pg_try_advisory_lock: %w", err)
	}

	if !acquired.Valid {
		conn.Close()
		return false, fmt.Errorf("pg_try_advisory_lock returned NULL for lock %q", a.lockName)
	}

	if !acquired.Bool {
		conn.Close()
		return false, nil
	}

	a.conn = conn
	a.held = true
	return true, nil
}

// AcquireOrFail takes the lock or returns ErrLockHeld.
func (a *AdvisoryLock) AcquireOrFail(ctx context.Context) error {
	acquired, err := a.TryAcquire(ctx)
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("%w: lock %q (another migration into this schema is running; use --force to skip the check)",
			ErrLockHeld, a.lockName)
	}
	return nil
}

// ReleaseLock releases the lock and returns its connection to the pool.
// Returns false if the lock was not held.
func (a *AdvisoryLock) ReleaseLock(ctx context.Context) (bool, error) {
	if !a.held {
		return false, nil
	}

	defer func() {
		a.conn.Close()
		a.conn = nil
		a.held = false
	}()

	var released sql.NullBool
	err := a.conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock(hashtext($1))", a.lockName).Scan(&released)
	if err != nil {
		return false, fmt.Errorf("failed to execute pg_advisory_unlock: %w", err)
	}

	// false means the server had no such lock for this session
	return released.Valid && released.Bool, nil
}

// LockName returns the name of the advisory lock.
func (a *AdvisoryLock) LockName() string {
	return a.lockName
}

// WithLock runs fn while holding the lock. The lock is released even if fn
// panics; release uses a fresh context so a canceled run still unlocks.
func (a *AdvisoryLock) WithLock(ctx context.Context, fn func() error) error {
	if err := a.AcquireOrFail(ctx); err != nil {
		return err
	}

	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// The server drops session locks when the connection closes anyway
		_, _ = a.ReleaseLock(releaseCtx)
	}()

	return fn()
}

// GenerateSchemaLockName returns the lock name for migrations into a schema.
// Format: "n8nmigrate:{schema}"
func GenerateSchemaLockName(schema string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, schema)

	return fmt.Sprintf("n8nmigrate:%s", sanitized)
}

// NewSchemaLock creates the advisory lock guarding a destination schema.
func NewSchemaLock(db *sql.DB, schema string) *AdvisoryLock {
	return NewAdvisoryLock(db, GenerateSchemaLockName(schema))
}

// IsMigrationRunning reports whether another session holds the schema lock.
// The check is not atomic: state may change right after it returns.
func IsMigrationRunning(ctx context.Context, db *sql.DB, schema string) (bool, error) {
	lock := NewSchemaLock(db, schema)

	acquired, err := lock.TryAcquire(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check lock for schema %q: %w", schema, err)
	}

	if acquired {
		_, _ = lock.ReleaseLock(ctx)
		return false, nil
	}

	return true, nil
}
