package config

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported driver names after normalization.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for custdb
type Config struct {
	// Database connection settings
	Database DatabaseConfig `mapstructure:"database"`

	// CSV dataset imported by setup
	CSVPath string `mapstructure:"csv_path"`

	// Logging
	Log LogConfig `mapstructure:"log"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	// Driver (postgres, mysql, sqlite)
	Driver string `mapstructure:"driver"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`

	// SSLMode is only used by postgres
	SSLMode string `mapstructure:"sslmode"`

	// DataDir is only used by sqlite
	DataDir string `mapstructure:"data_dir"`

	// Connection pool settings
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"database.driver":   "DB_DRIVER",
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.name":     "DB_NAME",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.sslmode":  "DB_SSLMODE",
	"database.data_dir": "DB_DATA_DIR",
	"csv_path":          "CSV_PATH",
	"log.level":         "LOG_LEVEL",
	"log.file":          "LOG_FILE",
}

// identifierPattern restricts database names to plain identifiers. The name
// is interpolated into CREATE DATABASE, so it must never come from user input.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          DBDriver,
			Host:            DBHost,
			Port:            DBPort,
			Name:            DBName,
			User:            DBUser,
			Password:        DBPassword,
			SSLMode:         DBSSLMode,
			DataDir:         DBDataDir,
			MaxOpenConns:    DBMaxOpenConns,
			MaxIdleConns:    DBMaxIdleConns,
			ConnMaxLifetime: DBConnMaxLifetime,
		},
		CSVPath: CSVPath,
		Log: LogConfig{
			Level: LogLevel,
			File:  LogFile,
		},
	}
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment. Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Bind registers defaults and environment variable names on v.
func Bind(v *viper.Viper) error {
	def := DefaultConfig()
	v.SetDefault("database.driver", def.Database.Driver)
	v.SetDefault("database.host", def.Database.Host)
	v.SetDefault("database.port", def.Database.Port)
	v.SetDefault("database.name", def.Database.Name)
	v.SetDefault("database.user", def.Database.User)
	v.SetDefault("database.password", def.Database.Password)
	v.SetDefault("database.sslmode", def.Database.SSLMode)
	v.SetDefault("database.data_dir", def.Database.DataDir)
	v.SetDefault("database.max_open_conns", def.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", def.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", def.Database.ConnMaxLifetime)
	v.SetDefault("csv_path", def.CSVPath)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

// Load reads configuration from viper into a Config struct
func Load(v *viper.Viper) (*Config, error) {
	if err := Bind(v); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	// Unmarshal viper config into struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Database.Driver = NormalizeDriver(cfg.Database.Driver)
	return cfg, nil
}

// NormalizeDriver maps driver aliases onto the supported driver names.
// Unknown names are returned lower-cased so Validate can report them.
func NormalizeDriver(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "postgres", "postgresql", "pgx", "pg":
		return DriverPostgres
	case "mysql", "mariadb":
		return DriverMySQL
	case "sqlite", "sqlite3":
		return DriverSQLite
	default:
		return n
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []string

	db := c.Database
	switch db.Driver {
	case DriverPostgres, DriverMySQL:
		if db.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if db.Port < 1 || db.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535 (got %d)", db.Port))
		}
		if db.User == "" {
			errs = append(errs, "database.user is required")
		}
	case DriverSQLite:
		if db.DataDir == "" {
			errs = append(errs, "database.data_dir is required for sqlite")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not supported (use postgres, mysql or sqlite)", db.Driver))
	}

	if !identifierPattern.MatchString(db.Name) {
		errs = append(errs, fmt.Sprintf("database.name %q must be a plain identifier (letters, digits, underscore)", db.Name))
	}

	// Validate database pool settings
	if db.MaxOpenConns < 1 {
		errs = append(errs, "database.max_open_conns must be >= 1")
	}
	if db.MaxIdleConns < 0 {
		errs = append(errs, "database.max_idle_conns must be >= 0")
	}
	if db.MaxIdleConns > db.MaxOpenConns {
		errs = append(errs, "database.max_idle_conns should not exceed max_open_conns")
	}

	if c.CSVPath == "" {
		errs = append(errs, "csv_path is required")
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q is not one of trace, debug, info, warn, error", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", joinErrors(errs))
	}

	return nil
}

// ValidIdentifier reports whether name is safe to interpolate as a database name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// joinErrors joins error messages with newline and bullet points
func joinErrors(errs []string) string {
	return strings.Join(errs, "\n  - ")
}
