package database

import "strings"

// CustomersTable is the only table custdb manages
const CustomersTable = "customers"

// Column is one business column of the customers table
type Column struct {
	Name string
	Type string
}

// Index is one secondary index on the customers table
type Index struct {
	Name    string
	Columns []string
}

// CustomerColumns are the 12 business columns in CSV order. The types are
// portable across PostgreSQL, MySQL and SQLite.
var CustomerColumns = []Column{
	{"customer_index", "INTEGER"},
	{"customer_id", "VARCHAR(16) UNIQUE"},
	{"first_name", "VARCHAR(50)"},
	{"last_name", "VARCHAR(50)"},
	{"company", "VARCHAR(100)"},
	{"city", "VARCHAR(100)"},
	{"country", "VARCHAR(100)"},
	{"phone_1", "VARCHAR(50)"},
	{"phone_2", "VARCHAR(50)"},
	{"email", "VARCHAR(100)"},
	{"subscription_date", "DATE"},
	{"website", "VARCHAR(255)"},
}

// CustomerIndexes are created after the table
var CustomerIndexes = []Index{
	{"idx_customer_id", []string{"customer_id"}},
	{"idx_customer_email", []string{"email"}},
	{"idx_customer_name", []string{"last_name", "first_name"}},
	{"idx_subscription_date", []string{"subscription_date"}},
	{"idx_country", []string{"country"}},
}

// CreateTableSQL renders CREATE TABLE IF NOT EXISTS for the dialect
func CreateTableSQL(d Dialect) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(CustomersTable)
	sb.WriteString(" (\n    ")
	sb.WriteString(d.PrimaryKey())
	for _, col := range CustomerColumns {
		sb.WriteString(",\n    ")
		sb.WriteString(col.Name)
		sb.WriteString(" ")
		sb.WriteString(col.Type)
	}
	sb.WriteString("\n)")
	return sb.String()
}

// SchemaSQL renders the full schema (table and indexes) as a script
func SchemaSQL(d Dialect) string {
	var sb strings.Builder
	sb.WriteString("-- customers schema (" + d.Name() + ")\n")
	sb.WriteString(CreateTableSQL(d))
	sb.WriteString(";\n\n")
	for _, idx := range CustomerIndexes {
		sb.WriteString(d.CreateIndexSQL(idx))
		sb.WriteString(";\n")
	}
	return sb.String()
}

// insertCustomerSQL uses ? placeholders; rebind before executing.
var insertCustomerSQL = "INSERT INTO " + CustomersTable + " (" + columnList() + ") VALUES (" +
	strings.TrimSuffix(strings.Repeat("?, ", len(CustomerColumns)), ", ") + ")"

func columnList() string {
	names := make([]string, len(CustomerColumns))
	for i, col := range CustomerColumns {
		names[i] = col.Name
	}
	return strings.Join(names, ", ")
}
