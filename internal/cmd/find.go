package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/willfong/custdb/internal/models"
	"github.com/willfong/custdb/internal/ui"
)

var (
	findCountry     string
	findYear        int
	findMonthCounts bool
	findEmailDomain string
	findFormat      string
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Look up customers by country, year or email domain",
	Long: `Run one of the built-in customer lookups. Exactly one lookup flag must
be given.

Examples:
  custdb find --country China
  custdb find --year 2021
  custdb find --month-counts
  custdb find --email-domain leonard.com --format json`,
	Run: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)

	f := findCmd.Flags()
	f.StringVar(&findCountry, "country", "", "customers in this country (exact match)")
	f.IntVar(&findYear, "year", 0, "customers who subscribed in this year")
	f.BoolVar(&findMonthCounts, "month-counts", false, "subscription counts per month")
	f.StringVar(&findEmailDomain, "email-domain", "", "customers whose email ends with this domain")
	f.StringVar(&findFormat, "format", formatTable, "output format: table, json or yaml")

	findCmd.MarkFlagsMutuallyExclusive("country", "year", "month-counts", "email-domain")
	findCmd.MarkFlagsOneRequired("country", "year", "month-counts", "email-domain")
}

// monthCount is one row of --month-counts output
type monthCount struct {
	Month int    `json:"month" yaml:"month"`
	Name  string `json:"name" yaml:"name"`
	Total int64  `json:"total" yaml:"total"`
}

func runFind(cmd *cobra.Command, args []string) {
	u := newUI()
	if err := validFormat(findFormat); err != nil {
		fail(u, "Invalid flags", err)
	}

	m, err := newManager()
	if err != nil {
		fail(u, "Invalid configuration", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	conn, err := m.Connect(ctx, "")
	if err != nil {
		fail(u, "Could not connect", err)
	}
	defer conn.Close()

	flags := cmd.Flags()
	var (
		customers []models.CustomerSummary
		title     string
	)
	switch {
	case flags.Changed("country"):
		title = "Customers in " + strconv.Quote(findCountry)
		customers, err = conn.CustomersByCountry(ctx, &findCountry)
	case flags.Changed("year"):
		title = fmt.Sprintf("Customers who subscribed in %d", findYear)
		customers, err = conn.CustomersByYear(ctx, findYear)
	case flags.Changed("email-domain"):
		title = "Customers with email at " + findEmailDomain
		customers, err = conn.CustomersByEmailDomain(ctx, findEmailDomain)
	case flags.Changed("month-counts"):
		counts, err := conn.CountByMonth(ctx)
		if err != nil {
			conn.Close()
			fail(u, "Lookup failed", err)
		}
		printMonthCounts(u, counts)
		return
	}
	if err != nil {
		conn.Close()
		fail(u, "Lookup failed", err)
	}

	if findFormat != formatTable {
		if err := writeStructured(u.Out, findFormat, customers); err != nil {
			conn.Close()
			fail(u, "Could not write output", err)
		}
		return
	}

	u.Println(u.Section(title))
	u.Println(summaryTable(u, customers))
	u.Println(u.Muted(rowsLabel(len(customers))))
}

func printMonthCounts(u *ui.UI, counts map[int]int64) {
	months := make([]int, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	sort.Ints(months)

	out := make([]monthCount, len(months))
	rows := make([][]string, len(months))
	for i, month := range months {
		name := time.Month(month).String()
		out[i] = monthCount{Month: month, Name: name, Total: counts[month]}
		rows[i] = []string{strconv.Itoa(month), name, strconv.FormatInt(counts[month], 10)}
	}

	if findFormat != formatTable {
		if err := writeStructured(u.Out, findFormat, out); err != nil {
			fail(u, "Could not write output", err)
		}
		return
	}

	u.Println(u.Section("Subscriptions per month"))
	u.Println(u.Table([]string{"month", "name", "total"}, rows))
}
