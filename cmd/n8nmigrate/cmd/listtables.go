package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/n8nmigrate/internal/schema"
)

var listTablesCmd = &cobra.Command{
	Use:   "list-tables",
	Short: "List the n8n tables known to the migrator",
	Long: `List-tables displays every table in the migration catalog, in the
fixed migration order, with the tables it references.

Example:
  n8nmigrate list-tables`,
	RunE: runListTables,
}

func init() {
	rootCmd.AddCommand(listTablesCmd)
}

func runListTables(cmd *cobra.Command, args []string) error {
	tables := schema.Tables()

	cmd.Printf("Tables known to n8nmigrate (%d):\n\n", len(tables))

	for i, t := range tables {
		cmd.Printf("%2d. %s\n", i+1, t.Name)
		if len(t.DependsOn) > 0 {
			cmd.Printf("    References: %s\n", strings.Join(t.DependsOn, ", "))
		}
		if renames, ok := schema.RenameMap(t.Name); ok {
			cmd.Printf("    Renamed columns: %d\n", len(renames))
		}
	}

	return nil
}
