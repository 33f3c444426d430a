package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/willfong/custdb/internal/database"
	"github.com/willfong/custdb/internal/ui"
)

var setupCSV string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the database and table, then import the CSV",
	Long: `Run the full provisioning sequence: create the database if it does not
exist, create the customers table and its indexes, and import the CSV
dataset if the table is empty. Running it again changes nothing.

Examples:
  custdb setup
  custdb setup --csv ./data/customer.csv
  DB_NAME=staging custdb setup`,
	Run: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().StringVar(&setupCSV, "csv", "", "CSV file to import (default from CSV_PATH)")
}

func runSetup(cmd *cobra.Command, args []string) {
	u := newUI()

	csvPath := setupCSV
	if csvPath == "" {
		csvPath = appConfig.CSVPath
	}

	u.Println(u.Header("Customer Database Setup"))
	u.Println()
	u.Println(u.KeyValue("Database", connectionLabel(appConfig)))
	u.Println(u.KeyValue("CSV", csvPath))
	u.Println()

	m, err := newManager()
	if err != nil {
		fail(u, "Invalid configuration", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	progress := newImportProgress(u, csvPath)
	report, err := m.Setup(ctx, csvPath, database.WithProgress(progress.update))
	if err != nil {
		progress.fail(err)

		step := "setup"
		var stepErr *database.StepError
		if errors.As(err, &stepErr) {
			step = stepErr.Step
			err = stepErr.Err
		}
		u.Println(u.StepRow(step, err.Error(), ui.StatusError))
		u.Println()
		fail(u, "Database setup failed!", nil)
	}
	progress.complete()

	dbDetail := "already exists"
	if report.DatabaseCreated {
		dbDetail = "created"
	}
	u.Println(u.StepRow(database.StepCreateDatabase, dbDetail, ui.StatusSuccess))
	u.Println(u.StepRow(database.StepCreateTable, "ready", ui.StatusSuccess))
	u.Println(importStepRow(u, report.Import))
	u.Println()
	u.Println(u.Success("Database setup completed successfully!"))
}

// importStepRow summarizes an import result as a step line
func importStepRow(u *ui.UI, res *database.ImportResult) string {
	if res.Skipped {
		return u.StepRow(database.StepImport,
			fmt.Sprintf("table already has %s rows", ui.FormatRowCount(res.Existing)),
			ui.StatusSkipped)
	}
	return u.StepRow(database.StepImport,
		fmt.Sprintf("%s rows in %s", ui.FormatRowCount(int64(res.Rows)), ui.FormatDuration(res.Duration)),
		ui.StatusSuccess)
}
