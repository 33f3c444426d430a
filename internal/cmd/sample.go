package cmd

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/willfong/custdb/internal/database"
	"github.com/willfong/custdb/internal/ui"
)

var sampleFormat string

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Run the built-in sample queries",
	Long: `Run four read-only queries against the customers table: the total
customer count, the five most common countries, subscriptions per year
and five random customers. A failing query is reported and the others
still run.

Examples:
  custdb sample
  custdb sample --format json`,
	Run: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVar(&sampleFormat, "format", formatTable, "output format: table, json or yaml")
}

func runSample(cmd *cobra.Command, args []string) {
	u := newUI()
	if err := validFormat(sampleFormat); err != nil {
		fail(u, "Invalid flags", err)
	}

	m, err := newManager()
	if err != nil {
		fail(u, "Invalid configuration", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	report, err := m.ExecuteSampleQueries(ctx)
	if err != nil {
		fail(u, "Could not run sample queries", err)
	}

	if sampleFormat != formatTable {
		if err := writeStructured(u.Out, sampleFormat, report); err != nil {
			fail(u, "Could not write output", err)
		}
	} else {
		printSampleReport(u, report)
	}

	if !report.OK() {
		Exit(1)
	}
}

func printSampleReport(u *ui.UI, r *database.SampleReport) {
	u.Println(u.Header("Sample Queries"))

	if _, failed := r.Errors[database.QueryTotalCustomers]; !failed {
		u.Println()
		u.Println(u.KeyValue("Customers", strconv.FormatInt(r.TotalCustomers, 10)))
	}

	if _, failed := r.Errors[database.QueryTopCountries]; !failed {
		rows := make([][]string, len(r.TopCountries))
		for i, c := range r.TopCountries {
			rows[i] = []string{c.Country, strconv.FormatInt(c.Count, 10)}
		}
		u.Println(u.Section("Top countries"))
		u.Println(u.Table([]string{"country", "customer_count"}, rows))
	}

	if _, failed := r.Errors[database.QueryCustomersByYear]; !failed {
		rows := make([][]string, len(r.CustomersByYear))
		for i, y := range r.CustomersByYear {
			rows[i] = []string{strconv.Itoa(y.Year), strconv.FormatInt(y.Count, 10)}
		}
		u.Println(u.Section("Subscriptions per year"))
		u.Println(u.Table([]string{"year", "total"}, rows))
	}

	if _, failed := r.Errors[database.QueryRandomCustomers]; !failed {
		u.Println(u.Section("Random customers"))
		u.Println(summaryTable(u, r.RandomCustomers))
	}

	if r.OK() {
		return
	}

	names := make([]string, 0, len(r.Errors))
	for name := range r.Errors {
		names = append(names, name)
	}
	sort.Strings(names)

	u.Println(u.Section("Errors"))
	for _, name := range names {
		u.Println(u.StepRow(name, r.Errors[name], ui.StatusError))
	}
}
