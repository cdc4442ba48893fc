package migrator

// ProgressReporter receives per-table progress from the copy loop.
type ProgressReporter interface {
	StartTable(table string, total int)
	Increment()
	FinishTable(stats TableStats)
}

type nopProgress struct{}

func (nopProgress) StartTable(string, int) {}
func (nopProgress) Increment()             {}
func (nopProgress) FinishTable(TableStats) {}

// NopProgress returns a reporter that does nothing.
func NopProgress() ProgressReporter {
	return nopProgress{}
}
