package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/willfong/custdb/internal/database"
)

var schemaOutput string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the customers table DDL for the configured driver",
	Long: `Print the CREATE TABLE and CREATE INDEX statements custdb runs, in the
dialect of the configured driver. Nothing is executed.

Examples:
  custdb schema
  custdb --driver mysql schema -o customers.sql`,
	Run: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "write to this file instead of stdout")
}

func runSchema(cmd *cobra.Command, args []string) {
	u := newUI()

	d, err := database.DialectFor(appConfig.Database.Driver)
	if err != nil {
		fail(u, "Invalid configuration", err)
	}
	script := database.SchemaSQL(d)

	if schemaOutput == "" {
		fmt.Fprint(u.Out, script)
		return
	}

	if err := os.WriteFile(schemaOutput, []byte(script), 0o644); err != nil {
		fail(u, "Could not write schema", err)
	}
	u.Println(u.Success("Schema written to " + schemaOutput))
}
