package migrator

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/n8nmigrate/internal/config"
)

const savepointName = "n8nmigrate_row"

// rowWriter owns the destination transaction for one table and decides
// what a failed row costs.
type rowWriter interface {
	// Insert runs one insert and returns the rows affected.
	Insert(ctx context.Context, query string, args []any) (int64, error)
	// Recover undoes the failed insert. It returns how many previously
	// inserted rows were lost with it.
	Recover(ctx context.Context) (int64, error)
	Commit() error
	Rollback() error
}

func newRowWriter(ctx context.Context, db *sql.DB, mode string) (rowWriter, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin destination transaction: %w", err)
	}

	if mode == config.RowFailureTransaction {
		return &transactionWriter{db: db, tx: tx}, nil
	}
	return &savepointWriter{tx: tx}, nil
}

// savepointWriter brackets every insert with a savepoint so a failing row
// is undone alone and earlier rows survive.
type savepointWriter struct {
	tx *sql.Tx
}

func (w *savepointWriter) Insert(ctx context.Context, query string, args []any) (int64, error) {
	if _, err := w.tx.ExecContext(ctx, "SAVEPOINT "+savepointName); err != nil {
		return 0, fmt.Errorf("failed to set savepoint: %w", err)
	}

	result, err := w.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	if _, err := w.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepointName); err != nil {
		return 0, fmt.Errorf("failed to release savepoint: %w", err)
	}

	affected, _ := result.RowsAffected()
	return affected, nil
}

func (w *savepointWriter) Recover(ctx context.Context) (int64, error) {
	if _, err := w.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepointName); err != nil {
		return 0, fmt.Errorf("failed to roll back to savepoint: %w", err)
	}
	if _, err := w.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepointName); err != nil {
		return 0, fmt.Errorf("failed to release savepoint: %w", err)
	}
	return 0, nil
}

func (w *savepointWriter) Commit() error   { return w.tx.Commit() }
func (w *savepointWriter) Rollback() error { return w.tx.Rollback() }

// transactionWriter rolls the whole table transaction back on a failed row
// and starts over, losing everything inserted since the last begin.
type transactionWriter struct {
	db      *sql.DB
	tx      *sql.Tx
	pending int64
}

func (w *transactionWriter) Insert(ctx context.Context, query string, args []any) (int64, error) {
	result, err := w.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	affected, _ := result.RowsAffected()
	w.pending += affected
	return affected, nil
}

func (w *transactionWriter) Recover(ctx context.Context) (int64, error) {
	lost := w.pending
	w.pending = 0

	if err := w.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return lost, fmt.Errorf("failed to roll back table transaction: %w", err)
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return lost, fmt.Errorf("failed to begin destination transaction: %w", err)
	}
	w.tx = tx

	return lost, nil
}

func (w *transactionWriter) Commit() error   { return w.tx.Commit() }
func (w *transactionWriter) Rollback() error { return w.tx.Rollback() }
