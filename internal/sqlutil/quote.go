// Package sqlutil provides SQL helpers shared by the source reader and the destination writer.
package sqlutil

import (
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// QuoteIdentifier quotes a PostgreSQL identifier with double quotes,
// preserving case. Embedded double quotes are doubled.
// Example: "createdAt" -> "\"createdAt\""
func QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

// QualifiedName returns a quoted schema.table reference.
func QualifiedName(schema, table string) string {
	return QuoteIdentifier(schema) + "." + QuoteIdentifier(table)
}

// QuoteSQLiteIdentifier quotes a SQLite identifier. SQLite accepts the same
// double-quote form; the helper exists so source queries never depend on
// the Postgres driver's rules.
func QuoteSQLiteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteColumns quotes each column name for PostgreSQL.
func QuoteColumns(columns []string) []string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteIdentifier(c)
	}
	return quoted
}

// validIdentifierRegex restricts table names accepted from the command line.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier checks that a name only contains alphanumeric characters and underscores.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe quotes a PostgreSQL identifier after validating it.
func QuoteIdentifierSafe(name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return QuoteIdentifier(name), nil
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
