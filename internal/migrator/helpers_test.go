package migrator

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/n8nmigrate/internal/config"
	"github.com/dbsmedya/n8nmigrate/internal/logger"
	"github.com/dbsmedya/n8nmigrate/internal/sqlutil"
)

const testSchema = "n8n"

type mockPair struct {
	source  *sql.DB
	dest    *sql.DB
	srcMock sqlmock.Sqlmock
	dstMock sqlmock.Sqlmock
}

func newMockPair(t *testing.T) *mockPair {
	t.Helper()

	src, srcMock, err := sqlmock.New()
	require.NoError(t, err)
	dst, dstMock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		src.Close()
		dst.Close()
	})

	return &mockPair{source: src, dest: dst, srcMock: srcMock, dstMock: dstMock}
}

func (p *mockPair) assertMet(t *testing.T) {
	t.Helper()
	require.NoError(t, p.srcMock.ExpectationsWereMet(), "source expectations")
	require.NoError(t, p.dstMock.ExpectationsWereMet(), "destination expectations")
}

func testConfig(mode, policy string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Destination.Schema = testSchema
	if mode != "" {
		cfg.Migration.RowFailureMode = mode
	}
	if policy != "" {
		cfg.Migration.JSONPolicy = policy
	}
	return cfg
}

func newTestMigrator(t *testing.T, p *mockPair, mode, policy string) *TableMigrator {
	t.Helper()
	m, err := NewTableMigrator(p.source, p.dest, testConfig(mode, policy), logger.NewNop())
	require.NoError(t, err)
	return m
}

func exact(query string) string {
	return "^" + regexp.QuoteMeta(query) + "$"
}

func (p *mockPair) expectDestColumns(table string, columns ...string) {
	rows := sqlmock.NewRows([]string{"column_name"})
	for _, c := range columns {
		rows.AddRow(c)
	}
	p.dstMock.ExpectQuery(exact(destinationColumnsQuery)).
		WithArgs(testSchema, table).
		WillReturnRows(rows)
}

func (p *mockPair) expectSourceTable(table string, exists bool) {
	n := int64(0)
	if exists {
		n = 1
	}
	p.srcMock.ExpectQuery(exact(sourceTableExistsQuery)).
		WithArgs(table).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
}

func (p *mockPair) expectSourceCount(table string, n int64) {
	p.srcMock.ExpectQuery(exact(fmt.Sprintf("SELECT COUNT(*) FROM %s", sqlutil.QuoteSQLiteIdentifier(table)))).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
}

func (p *mockPair) expectSourceRows(table string, columns []string, rows ...[]driver.Value) {
	r := sqlmock.NewRows(columns)
	for _, row := range rows {
		r.AddRow(row...)
	}
	p.srcMock.ExpectQuery(exact(fmt.Sprintf("SELECT * FROM %s", sqlutil.QuoteSQLiteIdentifier(table)))).
		WillReturnRows(r)
}

// expectSourceTableWithRows queues existence, count and row load for a table.
func (p *mockPair) expectSourceTableWithRows(table string, columns []string, rows ...[]driver.Value) {
	p.expectSourceTable(table, true)
	p.expectSourceCount(table, int64(len(rows)))
	p.expectSourceRows(table, columns, rows...)
}

func (p *mockPair) expectSavepointInsert(query string, args ...driver.Value) {
	p.dstMock.ExpectExec(exact("SAVEPOINT " + savepointName)).WillReturnResult(sqlmock.NewResult(0, 0))
	p.dstMock.ExpectExec(exact(query)).WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 1))
	p.dstMock.ExpectExec(exact("RELEASE SAVEPOINT " + savepointName)).WillReturnResult(sqlmock.NewResult(0, 0))
}

func (p *mockPair) expectSavepointFailure(query string, err error, args ...driver.Value) {
	p.dstMock.ExpectExec(exact("SAVEPOINT " + savepointName)).WillReturnResult(sqlmock.NewResult(0, 0))
	p.dstMock.ExpectExec(exact(query)).WithArgs(args...).WillReturnError(err)
	p.dstMock.ExpectExec(exact("ROLLBACK TO SAVEPOINT " + savepointName)).WillReturnResult(sqlmock.NewResult(0, 0))
	p.dstMock.ExpectExec(exact("RELEASE SAVEPOINT " + savepointName)).WillReturnResult(sqlmock.NewResult(0, 0))
}

type recordingProgress struct {
	started    []string
	totals     []int
	increments int
	finished   []TableStats
}

func (r *recordingProgress) StartTable(table string, total int) {
	r.started = append(r.started, table)
	r.totals = append(r.totals, total)
}

func (r *recordingProgress) Increment() { r.increments++ }

func (r *recordingProgress) FinishTable(stats TableStats) {
	r.finished = append(r.finished, stats)
}
