package cmd

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/willfong/custdb/internal/database"
	"github.com/willfong/custdb/internal/ui"
)

var importCSV string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the CSV dataset into the customers table",
	Long: `Load every row of the CSV into the customers table inside a single
transaction. The header line is skipped. If the table already has rows
the import is skipped. A malformed row aborts the import and nothing is
kept.

Examples:
  custdb import
  custdb import --csv ./fixtures/generated.csv`,
	Run: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importCSV, "csv", "", "CSV file to import (default from CSV_PATH)")
}

func runImport(cmd *cobra.Command, args []string) {
	u := newUI()

	csvPath := importCSV
	if csvPath == "" {
		csvPath = appConfig.CSVPath
	}

	u.Println(u.Header("Customer Data Import"))
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
	res, err := m.ImportCustomerData(ctx, csvPath, database.WithProgress(progress.update))
	if err != nil {
		progress.fail(err)
		fail(u, "Import failed", err)
	}
	progress.complete()

	u.Println(importStepRow(u, res))
}

// importProgress drives a progress bar from importer callbacks. The bar
// only appears once rows start arriving.
type importProgress struct {
	bar     *ui.ProgressBar
	started bool
}

func newImportProgress(u *ui.UI, csvPath string) *importProgress {
	return &importProgress{bar: u.NewProgressBar("Importing", countRecords(csvPath))}
}

func (p *importProgress) update(rows int) {
	p.started = true
	p.bar.Update(int64(rows))
}

func (p *importProgress) complete() {
	if p.started {
		p.bar.Complete()
	}
}

func (p *importProgress) fail(err error) {
	if p.started {
		p.bar.Fail(err)
	}
}

// countRecords counts data rows for the progress total. Any problem with
// the file is left for the importer to report, so errors count as zero.
func countRecords(path string) int64 {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	var n int64
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0
		}
		n++
	}
	if n > 0 {
		n-- // header
	}
	return n
}
