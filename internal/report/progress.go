package report

import (
	"sync"

	"github.com/gosuri/uiprogress"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/n8nmigrate/internal/migrator"
)

const labelWidth = 32

// ProgressBar shows one terminal bar per migrated table.
type ProgressBar struct {
	mu       sync.Mutex
	progress *uiprogress.Progress
	bar      *uiprogress.Bar
	started  bool
}

var _ migrator.ProgressReporter = (*ProgressBar)(nil)

// NewProgressBar creates a progress bar writer on stdout.
func NewProgressBar() *ProgressBar {
	return &ProgressBar{progress: uiprogress.New()}
}

// barLabel fits a table name into the fixed label column.
func barLabel(table string) string {
	return runewidth.FillRight(runewidth.Truncate(table, labelWidth, "…"), labelWidth)
}

// StartTable adds a bar for the table, starting the renderer on first use.
func (p *ProgressBar) StartTable(table string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if total < 1 {
		total = 1
	}
	label := barLabel(table)
	p.bar = p.progress.AddBar(total).AppendCompleted().PrependElapsed()
	p.bar.PrependFunc(func(b *uiprogress.Bar) string {
		return label
	})

	if !p.started {
		p.progress.Start()
		p.started = true
	}
}

// Increment advances the current table's bar by one row.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Incr()
	}
}

// FinishTable completes the current table's bar.
func (p *ProgressBar) FinishTable(stats migrator.TableStats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Set(p.bar.Total)
		p.bar = nil
	}
}

// Stop stops the renderer after a final redraw.
func (p *ProgressBar) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		p.progress.Stop()
		p.started = false
	}
}
