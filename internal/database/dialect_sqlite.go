package database

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/willfong/custdb/internal/config"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// sqliteDialect keeps each database in <data_dir>/<name>.db. There is no
// server, so creating a database means creating the file.
type sqliteDialect struct{}

func (sqliteDialect) Name() string       { return config.DriverSQLite }
func (sqliteDialect) DriverName() string { return "sqlite" }

func (d sqliteDialect) DSN(cfg config.DatabaseConfig, database string) string {
	return d.DatabasePath(cfg, database)
}

func (sqliteDialect) DatabasePath(cfg config.DatabaseConfig, database string) string {
	return filepath.Join(cfg.DataDir, database+".db")
}

func (sqliteDialect) AdminDatabase() string { return "" }

func (sqliteDialect) DatabaseExistsQuery() string { return "" }

func (sqliteDialect) CreateDatabaseSQL(string) string { return "" }

func (sqliteDialect) PrimaryKey() string { return "id INTEGER PRIMARY KEY AUTOINCREMENT" }

func (sqliteDialect) CreateIndexSQL(idx Index) string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)",
		idx.Name, CustomersTable, strings.Join(idx.Columns, ", "))
}

func (sqliteDialect) IsAlreadyExists(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already exists")
}

func (sqliteDialect) YearExpr(column string) string {
	return "CAST(strftime('%Y', " + column + ") AS INTEGER)"
}

func (sqliteDialect) MonthExpr(column string) string {
	return "CAST(strftime('%m', " + column + ") AS INTEGER)"
}

func (sqliteDialect) RandomFunc() string { return "RANDOM()" }
