package migrator

import (
	"encoding/json"
	"fmt"

	"github.com/dbsmedya/n8nmigrate/internal/config"
	"github.com/dbsmedya/n8nmigrate/internal/schema"
	"github.com/dbsmedya/n8nmigrate/internal/types"
)

// InvalidJSONError marks a row rejected because a JSON column held text
// that does not parse.
type InvalidJSONError struct {
	Table  string
	Column string
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid JSON in %s.%s", e.Table, e.Column)
}

// Transformer turns source rows of one table into destination rows.
type Transformer struct {
	table       string
	destColumns map[string]bool
	jsonPolicy  string

	// InvalidJSON counts invalid JSON values passed through unchanged.
	InvalidJSON int64
}

// NewTransformer creates a transformer for a table with the given
// destination columns.
func NewTransformer(table string, destColumns []string, jsonPolicy string) *Transformer {
	cols := make(map[string]bool, len(destColumns))
	for _, c := range destColumns {
		cols[c] = true
	}
	if jsonPolicy == "" {
		jsonPolicy = config.JSONPassthrough
	}
	return &Transformer{
		table:       table,
		destColumns: cols,
		jsonPolicy:  jsonPolicy,
	}
}

// Transform maps a source row onto destination columns. Columns the
// destination lacks are dropped, boolean columns are coerced and JSON
// columns are validated. The result keeps source column order and may be
// empty. Under the reject policy invalid JSON returns *InvalidJSONError.
func (t *Transformer) Transform(src *types.Row) (*types.Row, error) {
	out := types.NewRow()

	for el := src.Front(); el != nil; el = el.Next() {
		dest := schema.MapColumn(t.table, el.Key)
		if !t.destColumns[dest] {
			continue
		}

		value := el.Value
		switch {
		case schema.IsBooleanColumn(dest):
			value = types.ToBool(value)
		case schema.IsJSONColumn(dest):
			if !validJSON(value) {
				if t.jsonPolicy == config.JSONReject {
					return nil, &InvalidJSONError{Table: t.table, Column: dest}
				}
				t.InvalidJSON++
			}
		}

		out.Set(dest, value)
	}

	return out, nil
}

// validJSON checks text values only; NULL and non-text values pass.
func validJSON(v any) bool {
	switch s := v.(type) {
	case string:
		return json.Valid([]byte(s))
	case []byte:
		return json.Valid(s)
	default:
		return true
	}
}
