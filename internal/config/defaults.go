// Package config contains the defaults and the viper-backed loader for custdb.
// Every default can be overridden by environment variables (optionally from
// a .env file), a config file or command-line flags.
package config

import "time"

// =============================================================================
// DATABASE DEFAULTS
// =============================================================================

const (
	// DBDriver is the database driver to use (postgres, mysql, sqlite)
	DBDriver = "postgres"

	// DBHost is the database server host
	DBHost = "localhost"

	// DBPort is the database server port
	DBPort = 5433

	// DBName is the primary database holding the customers table
	DBName = "rag_to_sql"

	// DBUser is the login role
	DBUser = "postgres"

	// DBPassword is the login password
	DBPassword = "1234"

	// DBSSLMode is passed through to PostgreSQL connections
	DBSSLMode = "disable"

	// DBDataDir is where the sqlite driver keeps <name>.db files
	DBDataDir = "./data"
)

// Pool sizing. Every operation pins a single connection, so these stay small.
const (
	// DBMaxOpenConns is maximum open connections per handle
	DBMaxOpenConns = 2

	// DBMaxIdleConns is maximum idle connections per handle
	DBMaxIdleConns = 1

	// DBConnMaxLifetime is how long a connection can be reused
	DBConnMaxLifetime = 5 * time.Minute
)

// =============================================================================
// IMPORT DEFAULTS
// =============================================================================

const (
	// CSVPath is the customer dataset loaded by setup and import
	CSVPath = "data/customer.csv"

	// ImportReportEvery is how many rows pass between progress callbacks
	ImportReportEvery = 100
)

// =============================================================================
// FIXTURE GENERATION DEFAULTS
// =============================================================================

const (
	// GenerateRows is how many customers custdb generate writes
	GenerateRows = 1000

	// GenerateFrom and GenerateTo bound subscription dates (YYYY-MM-DD)
	GenerateFrom = "2020-01-01"
	GenerateTo   = "2022-12-31"

	// GenerateBufferSize is the CSV writer buffer in bytes
	GenerateBufferSize = 64 * 1024
)

// =============================================================================
// LOGGING DEFAULTS
// =============================================================================

const (
	// LogLevel is the zerolog level name
	LogLevel = "info"

	// LogFile is the rotating log file (empty = console only)
	LogFile = ""
)
