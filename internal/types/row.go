// Package types contains shared types used across multiple packages to avoid import cycles.
package types

import "github.com/elliotchance/orderedmap/v2"

// Row is an ordered column -> value mapping. Source rows keep the SQLite
// column order, transformed rows keep that same order with destination names.
type Row = orderedmap.OrderedMap[string, any]

// NewRow returns an empty Row.
func NewRow() *Row {
	return orderedmap.NewOrderedMap[string, any]()
}

// RowFromSlices builds a Row from parallel column and value slices.
// Extra values without a column are ignored.
func RowFromSlices(columns []string, values []any) *Row {
	row := NewRow()
	for i, col := range columns {
		var v any
		if i < len(values) {
			v = values[i]
		}
		row.Set(col, v)
	}
	return row
}

// Columns returns the row's column names in order.
func Columns(row *Row) []string {
	cols := make([]string, 0, row.Len())
	for el := row.Front(); el != nil; el = el.Next() {
		cols = append(cols, el.Key)
	}
	return cols
}

// Values returns the row's values in column order.
func Values(row *Row) []any {
	vals := make([]any, 0, row.Len())
	for el := row.Front(); el != nil; el = el.Next() {
		vals = append(vals, el.Value)
	}
	return vals
}
