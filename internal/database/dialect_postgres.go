package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/willfong/custdb/internal/config"
)

// PostgreSQL SQLSTATE codes for objects that already exist.
const (
	pgDuplicateDatabase = "42P04"
	pgDuplicateTable    = "42P07"
)

type postgresDialect struct{}

func (postgresDialect) Name() string       { return config.DriverPostgres }
func (postgresDialect) DriverName() string { return "pgx" }

func (postgresDialect) DSN(cfg config.DatabaseConfig, database string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + database,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{cfg.SSLMode}}.Encode()
	}
	return u.String()
}

func (postgresDialect) AdminDatabase() string { return "postgres" }

func (postgresDialect) DatabaseExistsQuery() string {
	return "SELECT 1 FROM pg_database WHERE datname = $1"
}

func (postgresDialect) CreateDatabaseSQL(name string) string {
	return "CREATE DATABASE " + pgx.Identifier{name}.Sanitize()
}

func (postgresDialect) PrimaryKey() string { return "id SERIAL PRIMARY KEY" }

func (postgresDialect) CreateIndexSQL(idx Index) string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)",
		idx.Name, CustomersTable, strings.Join(idx.Columns, ", "))
}

func (postgresDialect) IsAlreadyExists(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgDuplicateDatabase || pgErr.Code == pgDuplicateTable
	}
	return false
}

func (postgresDialect) YearExpr(column string) string {
	return "CAST(EXTRACT(YEAR FROM " + column + ") AS INTEGER)"
}

func (postgresDialect) MonthExpr(column string) string {
	return "CAST(EXTRACT(MONTH FROM " + column + ") AS INTEGER)"
}

func (postgresDialect) RandomFunc() string { return "RANDOM()" }
