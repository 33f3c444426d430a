package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/willfong/custdb/internal/config"
	"github.com/willfong/custdb/internal/database"
	"github.com/willfong/custdb/internal/logging"
	"github.com/willfong/custdb/internal/ui"
)

var (
	cfgFile string
	envFile string
	verbose bool
	noColor bool
	timeout time.Duration

	// v holds flags, environment and config file values
	v = viper.New()

	// appConfig is loaded before every subcommand runs
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "custdb",
	Short: "Provision, load and query a customer database",
	Long: `custdb creates a customer database, loads it from a 12-column CSV
dataset and runs lookups against it.

Connection settings come from DB_* environment variables (optionally
from a .env file), a config file or flags. PostgreSQL, MySQL/MariaDB and
SQLite are supported.

Example usage:
  custdb setup --csv data/customer.csv
  custdb find --country China
  custdb query 'SELECT COUNT(*) FROM customers'
  custdb --driver sqlite sample --format json`,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	pf.StringVar(&envFile, "env-file", ".env", "file of KEY=VALUE environment defaults")
	pf.String("driver", config.DBDriver, "database driver: postgres, mysql or sqlite")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&noColor, "no-color", false, "disable colors and animations")
	pf.DurationVar(&timeout, "timeout", 0, "abort the command after this long (0 = no limit)")

	if err := v.BindPFlag("database.driver", pf.Lookup("driver")); err != nil {
		panic(err)
	}

	// Silence usage on error - we'll print our own messages
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// loadConfig resolves configuration and logging for every subcommand
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logging.Apply(level, cfg.Log.File, noColor)

	appConfig = cfg
	return nil
}

// newUI returns the terminal writer honoring --no-color
func newUI() *ui.UI {
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}
	return u
}

// newManager validates the loaded configuration and builds a Manager
func newManager() (*database.Manager, error) {
	if err := appConfig.Validate(); err != nil {
		return nil, err
	}
	return database.New(appConfig)
}

// commandContext is cancelled on SIGINT/SIGTERM and after --timeout
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	return tctx, func() {
		cancel()
		stop()
	}
}

// fail prints err in the UI style and exits with status 1
func fail(u *ui.UI, msg string, err error) {
	fmt.Fprintln(os.Stderr, u.Error(msg))
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Muted("  "+err.Error()))
	}
	Exit(1)
}

// connectionLabel describes where commands connect, without the password
func connectionLabel(cfg *config.Config) string {
	db := cfg.Database
	if db.Driver == config.DriverSQLite {
		return fmt.Sprintf("sqlite %s/%s.db", db.DataDir, db.Name)
	}
	return fmt.Sprintf("%s %s@%s:%d/%s", db.Driver, db.User, db.Host, db.Port, db.Name)
}

// Verbose returns whether verbose mode is enabled
func Verbose() bool {
	return verbose
}

// Exit with code
func Exit(code int) {
	os.Exit(code)
}
