package migrator

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

// TableStats counts what happened to one table's rows.
type TableStats struct {
	Table      string
	Inserted   int64 // rows written
	Skipped    int64 // rows that failed or mapped to nothing
	Existing   int64 // rows ignored by ON CONFLICT DO NOTHING
	RolledBack int64 // rows lost to a whole-transaction rollback
	Duration   time.Duration
	Err        error // table-level failure; counters are then zero
}

// Active reports whether the table saw any row activity.
func (s TableStats) Active() bool {
	return s.Inserted > 0 || s.Skipped > 0 || s.Existing > 0 || s.RolledBack > 0
}

// Summary accumulates per-table stats in migration order.
type Summary struct {
	tables *orderedmap.OrderedMap[string, TableStats]
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{tables: orderedmap.NewOrderedMap[string, TableStats]()}
}

// Add records stats for a table. A second Add for the same table replaces
// the first and keeps its position.
func (s *Summary) Add(stats TableStats) {
	s.tables.Set(stats.Table, stats)
}

// Get returns the stats recorded for a table.
func (s *Summary) Get(table string) (TableStats, bool) {
	return s.tables.Get(table)
}

// Len returns the number of recorded tables.
func (s *Summary) Len() int {
	return s.tables.Len()
}

// Tables returns every recorded table in order.
func (s *Summary) Tables() []TableStats {
	out := make([]TableStats, 0, s.tables.Len())
	for el := s.tables.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// ActiveTables returns the tables with nonzero activity, in order.
func (s *Summary) ActiveTables() []TableStats {
	var out []TableStats
	for el := s.tables.Front(); el != nil; el = el.Next() {
		if el.Value.Active() {
			out = append(out, el.Value)
		}
	}
	return out
}

// Failed returns the tables that hit a table-level error, in order.
func (s *Summary) Failed() []TableStats {
	var out []TableStats
	for el := s.tables.Front(); el != nil; el = el.Next() {
		if el.Value.Err != nil {
			out = append(out, el.Value)
		}
	}
	return out
}

// Totals sums every table's counters.
func (s *Summary) Totals() TableStats {
	total := TableStats{Table: "TOTAL"}
	for el := s.tables.Front(); el != nil; el = el.Next() {
		total.Inserted += el.Value.Inserted
		total.Skipped += el.Value.Skipped
		total.Existing += el.Value.Existing
		total.RolledBack += el.Value.RolledBack
		total.Duration += el.Value.Duration
	}
	return total
}
