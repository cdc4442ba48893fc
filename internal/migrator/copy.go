// Package migrator copies n8n tables from the SQLite source into the
// PostgreSQL destination.
package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dbsmedya/n8nmigrate/internal/config"
	"github.com/dbsmedya/n8nmigrate/internal/logger"
	"github.com/dbsmedya/n8nmigrate/internal/sqlutil"
	"github.com/dbsmedya/n8nmigrate/internal/types"
)

// previewValues is how many leading values a failed row logs.
const previewValues = 3

// TableMigrator copies one table at a time. Each table's inserts share one
// destination transaction, committed after every row was attempted.
type TableMigrator struct {
	sourceDB       *sql.DB
	destDB         *sql.DB
	schema         string
	rowFailureMode string
	jsonPolicy     string
	logger         *logger.Logger
	progress       ProgressReporter
}

// NewTableMigrator creates a table migrator.
func NewTableMigrator(sourceDB, destDB *sql.DB, cfg *config.Config, log *logger.Logger) (*TableMigrator, error) {
	if sourceDB == nil {
		return nil, fmt.Errorf("source database is nil")
	}
	if destDB == nil {
		return nil, fmt.Errorf("destination database is nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &TableMigrator{
		sourceDB:       sourceDB,
		destDB:         destDB,
		schema:         cfg.Destination.Schema,
		rowFailureMode: cfg.Migration.RowFailureMode,
		jsonPolicy:     cfg.Migration.JSONPolicy,
		logger:         log.WithSchema(cfg.Destination.Schema),
		progress:       NopProgress(),
	}, nil
}

// SetProgress installs a progress reporter.
func (m *TableMigrator) SetProgress(p ProgressReporter) {
	if p == nil {
		p = NopProgress()
	}
	m.progress = p
}

// SetLogger sets a custom logger; entries are tagged with the destination schema.
func (m *TableMigrator) SetLogger(log *logger.Logger) {
	m.logger = log.WithSchema(m.schema)
}

// MigrateTable copies every row of one table. A failing row is undone,
// counted as skipped and logged; it never stops the table. The returned
// error is a table-level failure, with the stats gathered so far.
func (m *TableMigrator) MigrateTable(ctx context.Context, table string) (TableStats, error) {
	start := time.Now()
	stats, started, err := m.migrateTable(ctx, table)
	stats.Duration = time.Since(start)
	if started {
		m.progress.FinishTable(stats)
	}
	return stats, err
}

// migrateTable does the work of MigrateTable. started reports whether the
// copy loop was reached and the progress reporter told about it.
func (m *TableMigrator) migrateTable(ctx context.Context, table string) (stats TableStats, started bool, err error) {
	stats = TableStats{Table: table}
	log := m.logger.WithTable(table)

	destColumns, err := DestinationColumns(ctx, m.destDB, m.schema, table)
	if err != nil {
		return stats, started, err
	}
	if len(destColumns) == 0 {
		log.Warnf("Table %s not found in destination schema %s, skipping", table, m.schema)
		return stats, started, nil
	}

	exists, err := SourceTableExists(ctx, m.sourceDB, table)
	if err != nil {
		return stats, started, err
	}
	if !exists {
		log.Debugf("Table %s not present in source, nothing to copy", table)
		return stats, started, nil
	}

	count, err := SourceRowCount(ctx, m.sourceDB, table)
	if err != nil {
		return stats, started, err
	}
	if count == 0 {
		log.Debugf("Table %s is empty in source", table)
		return stats, started, nil
	}

	log.Infof("Migrating %s (%d rows)...", table, count)

	rows, err := LoadSourceRows(ctx, m.sourceDB, table)
	if err != nil {
		return stats, started, err
	}

	m.progress.StartTable(table, len(rows))
	started = true

	writer, err := newRowWriter(ctx, m.destDB, m.rowFailureMode)
	if err != nil {
		return stats, started, err
	}

	transformer := NewTransformer(table, destColumns, m.jsonPolicy)
	queries := make(map[string]string)

	for i, src := range rows {
		if err := ctx.Err(); err != nil {
			_ = writer.Rollback()
			return stats, started, fmt.Errorf("migration of %s interrupted: %w", table, err)
		}

		m.progress.Increment()

		dest, err := transformer.Transform(src)
		if err != nil {
			var jsonErr *InvalidJSONError
			if errors.As(err, &jsonErr) {
				log.WithRow(i+1).Warnw("Rejected row with invalid JSON", "column", jsonErr.Column)
				stats.Skipped++
				continue
			}
			_ = writer.Rollback()
			return stats, started, err
		}

		if dest.Len() == 0 {
			stats.Skipped++
			continue
		}

		columns := types.Columns(dest)
		key := strings.Join(columns, "\x00")
		query, ok := queries[key]
		if !ok {
			query = BuildInsertQuery(m.schema, table, columns)
			queries[key] = query
		}
		values := types.Values(dest)

		affected, err := writer.Insert(ctx, query, values)
		if err != nil {
			if ctx.Err() != nil {
				_ = writer.Rollback()
				return stats, started, fmt.Errorf("migration of %s interrupted: %w", table, ctx.Err())
			}

			log.WithRow(i+1).Warnw("Error inserting row",
				"error", sqlutil.DescribeError(err),
				"columns", columns,
				"values", sqlutil.Preview(values, previewValues),
			)
			stats.Skipped++

			lost, recoverErr := writer.Recover(ctx)
			if lost > 0 {
				stats.Inserted -= lost
				stats.RolledBack += lost
				log.Warnf("Row failure rolled back %d previously inserted rows", lost)
			}
			if recoverErr != nil {
				_ = writer.Rollback()
				return stats, started, fmt.Errorf("failed to recover from row error: %w", recoverErr)
			}
			continue
		}

		if affected == 0 {
			stats.Existing++
		} else {
			stats.Inserted += affected
		}
	}

	if err := writer.Commit(); err != nil {
		return stats, started, fmt.Errorf("failed to commit %s: %w", table, err)
	}

	if transformer.InvalidJSON > 0 {
		log.Debugf("%d values in JSON columns did not parse and were passed through", transformer.InvalidJSON)
	}

	log.Infow("Table migrated",
		"inserted", stats.Inserted,
		"skipped", stats.Skipped,
		"existing", stats.Existing,
		"rolled_back", stats.RolledBack,
	)

	return stats, started, nil
}

// BuildInsertQuery constructs the per-row insert for a table. Conflicting
// rows are ignored so re-runs skip data already present.
// Example: INSERT INTO "n8n"."tag_entity" ("id", "name") VALUES ($1, $2) ON CONFLICT DO NOTHING
func BuildInsertQuery(schema, table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		sqlutil.QualifiedName(schema, table),
		strings.Join(sqlutil.QuoteColumns(columns), ", "),
		strings.Join(placeholders, ", "),
	)
}
