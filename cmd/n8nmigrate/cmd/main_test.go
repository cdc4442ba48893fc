package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// resetFlags restores every flag variable to its zero value.
func resetFlags() {
	cfgFile, logLevel, logFormat, noColor = "", "", "", false
	sqlitePath = ""
	pgDriver, pgHost, pgPort, pgDatabase = "", "", 0, ""
	pgUser, pgPassword, pgSchema, pgSSLMode = "", "", "", ""

	migrateTables = nil
	migrateOrdering, migrateRowFailureMode, migrateJSONPolicy = "", "", ""
	migrateProgress, migrateSkipVerify, migrateCompareSource, migrateForce = false, false, false, false
}

// runRoot executes the root command with args and returns what the
// command and the report printer wrote.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags()
	t.Cleanup(resetFlags)

	var buf bytes.Buffer
	setOutputWriter(&buf)
	t.Cleanup(resetOutputWriter)

	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestExecute(t *testing.T) {
	assert.NotNil(t, Execute)
}

func TestVersionVariables(t *testing.T) {
	assert.NotEmpty(t, Version, "Version should not be empty")
	assert.NotEmpty(t, Commit, "Commit should not be empty")
}

func TestCLIFlagsVariables(t *testing.T) {
	resetFlags()

	assert.Equal(t, "", cfgFile)
	assert.Equal(t, "", logLevel)
	assert.Equal(t, "", sqlitePath)
	assert.Equal(t, 0, pgPort)
	assert.Nil(t, migrateTables)
	assert.False(t, migrateForce)
}
