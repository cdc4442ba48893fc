package sqlutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestSQLState(t *testing.T) {
	pgErr := &pgconn.PgError{Code: UniqueViolation, Message: "duplicate key"}
	pqErr := &pq.Error{Code: pq.ErrorCode(ForeignKeyViolation), Message: "fk"}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("boom"), want: ""},
		{name: "pgx error", err: pgErr, want: UniqueViolation},
		{name: "wrapped pgx error", err: fmt.Errorf("insert: %w", pgErr), want: UniqueViolation},
		{name: "pq error", err: pqErr, want: ForeignKeyViolation},
		{name: "wrapped pq error", err: fmt.Errorf("insert: %w", pqErr), want: ForeignKeyViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SQLState(tt.err))
		})
	}
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "", DescribeError(nil))
	assert.Equal(t, "boom", DescribeError(errors.New("boom")))

	err := fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: NotNullViolation, Message: "null value"})
	assert.Contains(t, DescribeError(err), "(SQLSTATE 23502)")
}
