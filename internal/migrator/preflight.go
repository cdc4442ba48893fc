package migrator

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/n8nmigrate/internal/graph"
	"github.com/dbsmedya/n8nmigrate/internal/logger"
)

// PreflightError represents a preflight check failure.
type PreflightError struct {
	Check   string
	Message string
	Tables  []string
}

func (e *PreflightError) Error() string {
	if len(e.Tables) > 0 {
		return fmt.Sprintf("%s: %s (tables: %v)", e.Check, e.Message, e.Tables)
	}
	return fmt.Sprintf("%s: %s", e.Check, e.Message)
}

// PreflightReport collects non-fatal findings.
type PreflightReport struct {
	MissingDestination []string // tables skipped at run time
	MissingSource      []string // tables that will count as zero rows
}

// PreflightChecker validates the environment before a migration.
type PreflightChecker struct {
	sourceDB *sql.DB
	destDB   *sql.DB
	schema   string
	logger   *logger.Logger
}

// NewPreflightChecker creates a new preflight checker.
func NewPreflightChecker(sourceDB, destDB *sql.DB, destSchema string, log *logger.Logger) (*PreflightChecker, error) {
	if sourceDB == nil {
		return nil, fmt.Errorf("source database is nil")
	}
	if destDB == nil {
		return nil, fmt.Errorf("destination database is nil")
	}
	if destSchema == "" {
		return nil, fmt.Errorf("destination schema is required")
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &PreflightChecker{
		sourceDB: sourceDB,
		destDB:   destDB,
		schema:   destSchema,
		logger:   log,
	}, nil
}

// RunAllChecks verifies the order against the dependency graph, that the
// destination schema exists and which tables are missing on either side.
// Missing tables are findings, not failures.
func (p *PreflightChecker) RunAllChecks(ctx context.Context, order []string) (*PreflightReport, error) {
	p.logger.Info("Running preflight checks...")

	if err := ValidateOrder(order); err != nil {
		return nil, err
	}

	exists, err := DestinationSchemaExists(ctx, p.destDB, p.schema)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &PreflightError{
			Check:   "destination schema",
			Message: fmt.Sprintf("schema %q does not exist (the n8n schema must be created before migrating)", p.schema),
		}
	}

	report := &PreflightReport{}
	for _, table := range order {
		cols, err := DestinationColumns(ctx, p.destDB, p.schema, table)
		if err != nil {
			return nil, err
		}
		if len(cols) == 0 {
			report.MissingDestination = append(report.MissingDestination, table)
		}

		ok, err := SourceTableExists(ctx, p.sourceDB, table)
		if err != nil {
			return nil, err
		}
		if !ok {
			report.MissingSource = append(report.MissingSource, table)
		}
	}

	if len(report.MissingDestination) > 0 {
		p.logger.Warnw("Tables missing in destination will be skipped", "tables", report.MissingDestination)
	}
	if len(report.MissingSource) > 0 {
		p.logger.Debugw("Tables missing in source count as empty", "tables", report.MissingSource)
	}

	p.logger.Info("All preflight checks PASSED")
	return report, nil
}

// ValidateOrder checks a table sequence against the declared dependencies.
func ValidateOrder(order []string) error {
	g, err := graph.BuildFromCatalog()
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	if err := g.ValidateOrder(order); err != nil {
		return &PreflightError{Check: "table order", Message: err.Error()}
	}
	return nil
}
