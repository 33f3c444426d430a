package cmd

import (
	"github.com/spf13/cobra"
	"github.com/willfong/custdb/internal/ui"
)

var (
	queryCommit bool
	queryFormat string
)

var queryCmd = &cobra.Command{
	Use:   "query SQL [ARGS...]",
	Short: "Run a SQL statement with bound arguments",
	Long: `Run one SQL statement on the primary database and print any rows it
returns. Extra arguments are bound to the statement's placeholders as
text; use $1, $2... for PostgreSQL and ? for MySQL and SQLite.

The statement runs in a transaction that is rolled back on exit unless
--commit is given.

Examples:
  custdb query 'SELECT COUNT(*) FROM customers'
  custdb query 'SELECT first_name, email FROM customers WHERE country = $1' China
  custdb --driver sqlite query "UPDATE customers SET city = ? WHERE customer_id = ?" Lima DD37Cf93aecA6Dc --commit`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().BoolVar(&queryCommit, "commit", false, "commit the statement")
	queryCmd.Flags().StringVar(&queryFormat, "format", formatTable, "output format: table, json or yaml")
}

// queryOutput is the structured form of a query result
type queryOutput struct {
	Columns []string `json:"columns" yaml:"columns"`
	Rows    [][]any  `json:"rows" yaml:"rows"`
}

func runQuery(cmd *cobra.Command, args []string) {
	u := newUI()
	if err := validFormat(queryFormat); err != nil {
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

	params := make([]any, len(args)-1)
	for i, a := range args[1:] {
		params[i] = a
	}

	res, err := conn.Execute(ctx, args[0], params, queryCommit)
	// Close before any exit so uncommitted work is rolled back
	conn.Close()
	if err != nil {
		fail(u, "Query failed", err)
	}

	if queryFormat != formatTable {
		out := queryOutput{Columns: res.Columns, Rows: res.Rows}
		if out.Rows == nil {
			out.Rows = [][]any{}
		}
		if err := writeStructured(u.Out, queryFormat, out); err != nil {
			fail(u, "Could not write output", err)
		}
		return
	}

	if !res.HasResultSet() {
		msg := "Statement executed"
		if queryCommit {
			msg += " and committed"
		}
		u.Println(u.Success(msg))
		return
	}

	u.Println(u.Table(res.Columns, ui.FormatRows(res.Rows)))
	u.Println(u.Muted(rowsLabel(res.Len())))
}
