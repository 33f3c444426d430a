package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/willfong/custdb/internal/models"
	"github.com/willfong/custdb/internal/ui"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

// writeStructured encodes v as JSON or YAML
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

var summaryHeaders = []string{"customer_id", "first_name", "last_name", "email", "country"}

// summaryTable renders lookup results
func summaryTable(u *ui.UI, customers []models.CustomerSummary) string {
	rows := make([][]string, len(customers))
	for i, c := range customers {
		rows[i] = []string{c.CustomerID, c.FirstName, c.LastName, c.Email, c.Country}
	}
	return u.Table(summaryHeaders, rows)
}

// rowsLabel renders "1 row" or "N rows"
func rowsLabel(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return "(" + strconv.Itoa(n) + " rows)"
}
