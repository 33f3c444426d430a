package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var createDBCmd = &cobra.Command{
	Use:   "create-db",
	Short: "Create the configured database if it does not exist",
	Run:   runCreateDB,
}

var createTableCmd = &cobra.Command{
	Use:   "create-table",
	Short: "Create the customers table and its indexes if they do not exist",
	Run:   runCreateTable,
}

func init() {
	rootCmd.AddCommand(createDBCmd)
	rootCmd.AddCommand(createTableCmd)
}

func runCreateDB(cmd *cobra.Command, args []string) {
	u := newUI()

	m, err := newManager()
	if err != nil {
		fail(u, "Invalid configuration", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	err = u.Step("Creating database "+m.DatabaseName(), func() (string, error) {
		created, err := m.CreateDatabase(ctx)
		if err != nil {
			return "", err
		}
		if created {
			return "created", nil
		}
		return "already exists", nil
	})
	if err != nil {
		fail(u, "Could not create database", err)
	}
}

func runCreateTable(cmd *cobra.Command, args []string) {
	u := newUI()

	m, err := newManager()
	if err != nil {
		fail(u, "Invalid configuration", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := u.Step("Creating customers table", tableStep(ctx, m.CreateCustomerTable)); err != nil {
		fail(u, "Could not create customer table", err)
	}
}

// tableStep adapts an error-only operation to UI.Step
func tableStep(ctx context.Context, create func(context.Context) error) func() (string, error) {
	return func() (string, error) {
		if err := create(ctx); err != nil {
			return "", err
		}
		return "ready", nil
	}
}
