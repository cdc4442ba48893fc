package sqlutil

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLState returns the PostgreSQL error code carried by err, or "" when the
// error did not come from the server. Both pgx and lib/pq errors are understood.
func SQLState(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

// DescribeError formats err with its SQLSTATE when one is available.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}
	if code := SQLState(err); code != "" {
		return fmt.Sprintf("%v (SQLSTATE %s)", err, code)
	}
	return err.Error()
}

// Common SQLSTATE codes the migrator reports on.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	NotNullViolation    = "23502"
	InvalidTextRep      = "22P02"
	UndefinedTable      = "42P01"
	InFailedTransaction = "25P02"
)
