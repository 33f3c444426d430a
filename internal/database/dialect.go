// Package database provisions the customers schema, imports the CSV dataset
// and runs the analytic queries.
//
// FILE: dialect.go
// PURPOSE: SQL differences between the supported servers. Everything that
// is not portable (DSN format, DDL, identifier quoting, date functions,
// "already exists" error codes) lives behind Dialect.
//
// RELATED FILES:
// - dialect_postgres.go, dialect_mysql.go, dialect_sqlite.go: implementations
// - schema.go: the portable customers table definition
package database

import (
	"fmt"

	"github.com/willfong/custdb/internal/config"
)

// Dialect describes how to talk to one kind of database server.
type Dialect interface {
	// Name is the normalized driver name from configuration
	Name() string

	// DriverName is the database/sql driver registered for this dialect
	DriverName() string

	// DSN builds a connection string for the named database. An empty
	// database connects to the server without selecting one.
	DSN(cfg config.DatabaseConfig, database string) string

	// AdminDatabase is the database used while creating the target database
	AdminDatabase() string

	// DatabaseExistsQuery takes the database name as its only bound parameter
	DatabaseExistsQuery() string

	// CreateDatabaseSQL quotes name as an identifier. name must come from
	// validated configuration, never from user input.
	CreateDatabaseSQL(name string) string

	// PrimaryKey is the column definition of the synthetic id column
	PrimaryKey() string

	// CreateIndexSQL returns an idempotent (or duplicate-tolerant) CREATE INDEX
	CreateIndexSQL(idx Index) string

	// IsAlreadyExists reports whether err means the object being created exists
	IsAlreadyExists(err error) bool

	// YearExpr and MonthExpr extract integer date parts from a DATE column
	YearExpr(column string) string
	MonthExpr(column string) string

	// RandomFunc orders rows randomly
	RandomFunc() string
}

// fileBacked is implemented by dialects whose databases are local files.
type fileBacked interface {
	DatabasePath(cfg config.DatabaseConfig, database string) string
}

// DialectFor returns the dialect for a normalized driver name.
func DialectFor(driver string) (Dialect, error) {
	switch config.NormalizeDriver(driver) {
	case config.DriverPostgres:
		return postgresDialect{}, nil
	case config.DriverMySQL:
		return mysqlDialect{}, nil
	case config.DriverSQLite:
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
