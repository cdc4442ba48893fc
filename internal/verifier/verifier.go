// Package verifier reports destination row counts after a migration.
package verifier

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/n8nmigrate/internal/logger"
	"github.com/dbsmedya/n8nmigrate/internal/migrator"
	"github.com/dbsmedya/n8nmigrate/internal/schema"
	"github.com/dbsmedya/n8nmigrate/internal/sqlutil"
)

// VerificationMethod defines what a verification run counts.
type VerificationMethod string

const (
	// MethodCount counts destination rows only
	MethodCount VerificationMethod = "count"
	// MethodCompare also counts source rows and flags differences
	MethodCompare VerificationMethod = "compare"
	// MethodSkip skips verification entirely
	MethodSkip VerificationMethod = "skip"
)

// VerifyResult holds the counts for one verified table.
type VerifyResult struct {
	Label         string
	Table         string
	DestCount     int64
	SourceCount   int64
	SourceChecked bool
	Err           error // destination count failed
	SourceErr     error // source count failed
}

// Match reports whether source and destination agree. Without a source
// count there is nothing to disagree with.
func (r VerifyResult) Match() bool {
	if r.Err != nil || r.SourceErr != nil {
		return false
	}
	return !r.SourceChecked || r.SourceCount == r.DestCount
}

// Report holds all verification results in target order.
type Report struct {
	Method  VerificationMethod
	Results []VerifyResult
}

// Mismatches returns results whose counts differ or could not be read.
func (r *Report) Mismatches() []VerifyResult {
	var out []VerifyResult
	for _, res := range r.Results {
		if !res.Match() {
			out = append(out, res)
		}
	}
	return out
}

// Verifier counts rows in the verification target tables.
type Verifier struct {
	source      *sql.DB
	destination *sql.DB
	schema      string
	method      VerificationMethod
	logger      *logger.Logger
}

// NewVerifier creates a new verifier. source may be nil unless the method
// is MethodCompare.
func NewVerifier(source, destination *sql.DB, destSchema string, method VerificationMethod, log *logger.Logger) (*Verifier, error) {
	if destination == nil {
		return nil, fmt.Errorf("destination database is nil")
	}
	if method == MethodCompare && source == nil {
		return nil, fmt.Errorf("source database is nil")
	}
	if method == "" {
		method = MethodCount
	}
	if method != MethodCount && method != MethodCompare && method != MethodSkip {
		return nil, fmt.Errorf("invalid verification method: %s", method)
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Verifier{
		source:      source,
		destination: destination,
		schema:      destSchema,
		method:      method,
		logger:      log,
	}, nil
}

// Verify counts every verification target. Failures are recorded per
// table and logged as warnings; Verify itself never fails a run.
func (v *Verifier) Verify(ctx context.Context) *Report {
	report := &Report{Method: v.method}
	if v.method == MethodSkip {
		v.logger.Info("Verification skipped")
		return report
	}

	for _, target := range schema.VerificationTargets() {
		res := VerifyResult{Label: target.Label, Table: target.Table}

		count, err := v.destinationCount(ctx, target.Table)
		if err != nil {
			v.logger.Warnw("Could not verify table", "table", target.Table, "error", sqlutil.DescribeError(err))
			res.Err = err
			report.Results = append(report.Results, res)
			continue
		}
		res.DestCount = count

		if v.method == MethodCompare {
			srcCount, err := v.sourceCount(ctx, target.Table)
			if err != nil {
				v.logger.Warnw("Could not count source table", "table", target.Table, "error", err)
				res.SourceErr = err
			} else {
				res.SourceCount = srcCount
				res.SourceChecked = true
				if srcCount != count {
					v.logger.Warnw("Row count differs",
						"table", target.Table,
						"source", srcCount,
						"destination", count,
					)
				}
			}
		}

		report.Results = append(report.Results, res)
	}

	return report
}

func (v *Verifier) destinationCount(ctx context.Context, table string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", sqlutil.QualifiedName(v.schema, table))

	var count int64
	if err := v.destination.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// sourceCount treats a table absent from the SQLite file as empty.
func (v *Verifier) sourceCount(ctx context.Context, table string) (int64, error) {
	exists, err := migrator.SourceTableExists(ctx, v.source, table)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	return migrator.SourceRowCount(ctx, v.source, table)
}
