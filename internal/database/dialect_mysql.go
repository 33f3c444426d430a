package database

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/willfong/custdb/internal/config"
)

// MySQL server error numbers for objects that already exist.
const (
	mysqlErrDBCreateExists = 1007
	mysqlErrDupKeyName     = 1061
)

type mysqlDialect struct{}

func (mysqlDialect) Name() string       { return config.DriverMySQL }
func (mysqlDialect) DriverName() string { return "mysql" }

// DSN always sets parseTime so DATE columns scan into time.Time.
func (mysqlDialect) DSN(cfg config.DatabaseConfig, database string) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = database
	mc.ParseTime = true
	return mc.FormatDSN()
}

// AdminDatabase is empty: MySQL connects without selecting a schema.
func (mysqlDialect) AdminDatabase() string { return "" }

func (mysqlDialect) DatabaseExistsQuery() string {
	return "SELECT 1 FROM information_schema.schemata WHERE schema_name = ?"
}

func (mysqlDialect) CreateDatabaseSQL(name string) string {
	return "CREATE DATABASE " + quoteBacktick(name)
}

func (mysqlDialect) PrimaryKey() string { return "id BIGINT AUTO_INCREMENT PRIMARY KEY" }

// CreateIndexSQL has no IF NOT EXISTS (MySQL 8 lacks it); duplicates are
// reported through IsAlreadyExists instead.
func (mysqlDialect) CreateIndexSQL(idx Index) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s(%s)",
		idx.Name, CustomersTable, strings.Join(idx.Columns, ", "))
}

func (mysqlDialect) IsAlreadyExists(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrDupKeyName || myErr.Number == mysqlErrDBCreateExists
	}
	return false
}

func (mysqlDialect) YearExpr(column string) string  { return "YEAR(" + column + ")" }
func (mysqlDialect) MonthExpr(column string) string { return "MONTH(" + column + ")" }
func (mysqlDialect) RandomFunc() string             { return "RAND()" }

func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
