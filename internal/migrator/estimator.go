package migrator

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/n8nmigrate/internal/logger"
	"github.com/dbsmedya/n8nmigrate/internal/schema"
)

// ColumnMapping pairs a source column with the destination column it feeds.
type ColumnMapping struct {
	Source      string
	Destination string
	Renamed     bool
}

// TableEstimate is the dry-run view of one table.
type TableEstimate struct {
	Table             string
	SourceExists      bool
	SourceRows        int64
	DestinationExists bool
	Mapped            []ColumnMapping
	Dropped           []string // source columns with no destination column
	UnfilledColumns   []string // destination columns no source column feeds
	Err               error
}

// WillCopy reports whether a real run would attempt inserts for the table.
func (e TableEstimate) WillCopy() bool {
	return e.Err == nil && e.SourceExists && e.DestinationExists && e.SourceRows > 0 && len(e.Mapped) > 0
}

// EstimateResult holds dry-run results for every table, in order.
type EstimateResult struct {
	Schema string
	Tables []TableEstimate
}

// TotalRows sums source rows of the tables a run would copy.
func (r *EstimateResult) TotalRows() int64 {
	var total int64
	for _, t := range r.Tables {
		if t.WillCopy() {
			total += t.SourceRows
		}
	}
	return total
}

// Estimator inspects both databases without writing anything.
type Estimator struct {
	sourceDB *sql.DB
	destDB   *sql.DB
	schema   string
	logger   *logger.Logger
}

// NewEstimator creates a new estimator.
func NewEstimator(sourceDB, destDB *sql.DB, destSchema string, log *logger.Logger) *Estimator {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Estimator{
		sourceDB: sourceDB,
		destDB:   destDB,
		schema:   destSchema,
		logger:   log,
	}
}

// Estimate inspects every table in order. Per-table errors are recorded on
// the estimate; only cancellation aborts.
func (e *Estimator) Estimate(ctx context.Context, order []string) (*EstimateResult, error) {
	result := &EstimateResult{Schema: e.schema}

	for _, table := range order {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dry-run interrupted: %w", err)
		}

		est := e.estimateTable(ctx, table)
		if est.Err != nil {
			e.logger.Warnf("Failed to inspect %s: %v", table, est.Err)
		}
		result.Tables = append(result.Tables, est)
	}

	return result, nil
}

func (e *Estimator) estimateTable(ctx context.Context, table string) TableEstimate {
	est := TableEstimate{Table: table}

	destColumns, err := DestinationColumns(ctx, e.destDB, e.schema, table)
	if err != nil {
		est.Err = err
		return est
	}
	est.DestinationExists = len(destColumns) > 0

	est.SourceExists, err = SourceTableExists(ctx, e.sourceDB, table)
	if err != nil {
		est.Err = err
		return est
	}
	if !est.SourceExists {
		return est
	}

	est.SourceRows, err = SourceRowCount(ctx, e.sourceDB, table)
	if err != nil {
		est.Err = err
		return est
	}

	sourceColumns, err := SourceColumns(ctx, e.sourceDB, table)
	if err != nil {
		est.Err = err
		return est
	}

	destSet := make(map[string]bool, len(destColumns))
	for _, c := range destColumns {
		destSet[c] = true
	}
	fed := make(map[string]bool)

	for _, src := range sourceColumns {
		dest := schema.MapColumn(table, src)
		if !destSet[dest] {
			est.Dropped = append(est.Dropped, src)
			continue
		}
		fed[dest] = true
		est.Mapped = append(est.Mapped, ColumnMapping{
			Source:      src,
			Destination: dest,
			Renamed:     src != dest,
		})
	}

	for _, c := range destColumns {
		if !fed[c] {
			est.UnfilledColumns = append(est.UnfilledColumns, c)
		}
	}

	return est
}
