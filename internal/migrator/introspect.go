package migrator

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/n8nmigrate/internal/sqlutil"
	"github.com/dbsmedya/n8nmigrate/internal/types"
)

const (
	destinationColumnsQuery = `SELECT column_name FROM information_schema.columns ` +
		`WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`

	destinationSchemaQuery = `SELECT COUNT(*) FROM information_schema.schemata WHERE schema_name = $1`

	sourceTableExistsQuery = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
)

// DestinationColumns returns the column names of schema.table in ordinal
// order. An empty result means the table does not exist.
func DestinationColumns(ctx context.Context, db *sql.DB, schema, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, destinationColumnsQuery, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read destination columns: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating destination columns: %w", err)
	}

	return columns, nil
}

// DestinationSchemaExists reports whether the schema is present in the destination.
func DestinationSchemaExists(ctx context.Context, db *sql.DB, schema string) (bool, error) {
	var count int64
	if err := db.QueryRowContext(ctx, destinationSchemaQuery, schema).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to look up schema %q: %w", schema, err)
	}
	return count > 0, nil
}

// SourceTableExists reports whether the SQLite file has the table.
func SourceTableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var count int64
	if err := db.QueryRowContext(ctx, sourceTableExistsQuery, table).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to look up source table: %w", err)
	}
	return count > 0, nil
}

// SourceRowCount counts the rows of a source table.
func SourceRowCount(ctx context.Context, db *sql.DB, table string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", sqlutil.QuoteSQLiteIdentifier(table))

	var count int64
	if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count source rows: %w", err)
	}
	return count, nil
}

// SourceColumns returns the declared column names of a source table.
func SourceColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", sqlutil.QuoteSQLiteIdentifier(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read source columns: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid     int64
			name    string
			ctype   sql.NullString
			notNull int64
			dflt    sql.NullString
			pk      int64
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan source column: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source columns: %w", err)
	}

	return columns, nil
}

// LoadSourceRows reads every row of a source table into memory, keeping
// the SQLite column order.
func LoadSourceRows(ctx context.Context, db *sql.DB, table string) ([]*types.Row, error) {
	query := fmt.Sprintf("SELECT * FROM %s", sqlutil.QuoteSQLiteIdentifier(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query source rows: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get column names: %w", err)
	}

	var result []*types.Row
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		result = append(result, types.RowFromSlices(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}
