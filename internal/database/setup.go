package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Setup step names used in errors and reports
const (
	StepCreateDatabase = "create database"
	StepCreateTable    = "create customer table"
	StepImport         = "import customer data"
)

// SetupReport summarizes a successful Setup
type SetupReport struct {
	DatabaseCreated bool          `json:"database_created" yaml:"database_created"`
	Import          *ImportResult `json:"import" yaml:"import"`
}

// StepError identifies which Setup step failed
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Setup creates the database, creates the customers table and imports the
// CSV at csvPath (the configured path when empty), stopping at the first
// step that fails. Running it again on a provisioned database changes nothing.
func (m *Manager) Setup(ctx context.Context, csvPath string, opts ...ImportOption) (*SetupReport, error) {
	report := &SetupReport{}

	created, err := m.CreateDatabase(ctx)
	if err != nil {
		return nil, &StepError{Step: StepCreateDatabase, Err: err}
	}
	report.DatabaseCreated = created

	if err := m.CreateCustomerTable(ctx); err != nil {
		return nil, &StepError{Step: StepCreateTable, Err: err}
	}

	imported, err := m.ImportCustomerData(ctx, csvPath, opts...)
	if err != nil {
		return nil, &StepError{Step: StepImport, Err: err}
	}
	report.Import = imported

	log.Info().Str("database", m.cfg.Name).Msg("Database setup completed")
	return report, nil
}
