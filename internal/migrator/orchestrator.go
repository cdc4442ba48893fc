package migrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dbsmedya/n8nmigrate/internal/config"
	"github.com/dbsmedya/n8nmigrate/internal/database"
	"github.com/dbsmedya/n8nmigrate/internal/logger"
)

// Result holds the outcome of a full migration run.
type Result struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Order       []string
	Summary     *Summary
	Interrupted bool // the run context was canceled before all tables ran
}

// Orchestrator runs the table migrations in order.
type Orchestrator struct {
	config      *config.Config
	dbManager   *database.Manager
	tables      *TableMigrator
	logger      *logger.Logger
	order       []string
	initialized bool
}

// NewOrchestrator creates a new orchestrator. Initialize must be called
// before Execute.
func NewOrchestrator(cfg *config.Config, dbManager *database.Manager, log *logger.Logger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if dbManager == nil {
		return nil, fmt.Errorf("database manager is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}

	tables, err := NewTableMigrator(dbManager.Source, dbManager.Destination, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		config:    cfg,
		dbManager: dbManager,
		tables:    tables,
		logger:    log,
	}, nil
}

// Initialize resolves the table order.
func (o *Orchestrator) Initialize() error {
	if o.initialized {
		return nil
	}

	order, err := ResolveOrder(o.config.Migration)
	if err != nil {
		return err
	}
	o.order = order
	o.initialized = true

	o.logger.Infow("Orchestrator initialized",
		"ordering", o.config.Migration.Ordering,
		"row_failure_mode", o.config.Migration.RowFailureMode,
		"tables", len(o.order),
	)
	return nil
}

// Order returns the resolved table order.
func (o *Orchestrator) Order() ([]string, error) {
	if !o.initialized {
		return nil, fmt.Errorf("orchestrator not initialized")
	}
	return append([]string(nil), o.order...), nil
}

// SetLogger sets a custom logger for the orchestrator and its table migrator.
func (o *Orchestrator) SetLogger(log *logger.Logger) {
	o.logger = log
	o.tables.SetLogger(log)
}

// SetProgress installs a progress reporter for the copy loop.
func (o *Orchestrator) SetProgress(p ProgressReporter) {
	o.tables.SetProgress(p)
}

// Execute migrates every table in order. A table-level failure is logged
// and recorded with zero counts; the run moves on. Cancellation stops the
// run after rolling back the table in progress; the partial result is
// returned together with the context error.
func (o *Orchestrator) Execute(ctx context.Context) (*Result, error) {
	if !o.initialized {
		return nil, fmt.Errorf("orchestrator not initialized")
	}
	if ctx == nil {
		return nil, fmt.Errorf("context is nil")
	}

	result := &Result{
		StartedAt: time.Now(),
		Order:     append([]string(nil), o.order...),
		Summary:   NewSummary(),
	}

	var runErr error
	for _, table := range o.order {
		if err := ctx.Err(); err != nil {
			result.Interrupted = true
			runErr = fmt.Errorf("migration interrupted before %s: %w", table, err)
			break
		}

		stats, err := o.tables.MigrateTable(ctx, table)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				o.logger.Warnw("Migration interrupted, table rolled back", "table", table)
				result.Summary.Add(TableStats{Table: table, Duration: stats.Duration, Err: err})
				result.Interrupted = true
				runErr = err
				break
			}

			o.logger.Errorw("Error migrating table", "table", table, "error", err)
			result.Summary.Add(TableStats{Table: table, Duration: stats.Duration, Err: err})
			continue
		}

		result.Summary.Add(stats)
	}

	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)

	totals := result.Summary.Totals()
	o.logger.Infow("Migration finished",
		"tables", result.Summary.Len(),
		"inserted", totals.Inserted,
		"skipped", totals.Skipped,
		"failed_tables", len(result.Summary.Failed()),
		"interrupted", result.Interrupted,
		"duration", result.Duration,
	)

	return result, runErr
}
