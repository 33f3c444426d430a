package database

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rs/zerolog/log"
	"github.com/willfong/custdb/internal/config"
	"github.com/willfong/custdb/internal/models"
)

// ImportResult describes what ImportCustomerData did
type ImportResult struct {
	Path     string        `json:"path" yaml:"path"`
	Rows     int           `json:"rows" yaml:"rows"`
	Skipped  bool          `json:"skipped" yaml:"skipped"`
	Existing int64         `json:"existing,omitempty" yaml:"existing,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

type importOptions struct {
	progress    func(rows int)
	reportEvery int
}

// ImportOption customizes ImportCustomerData
type ImportOption func(*importOptions)

// WithProgress calls fn with the number of rows inserted so far, every
// reportEvery rows and once more when the file is done.
func WithProgress(fn func(rows int)) ImportOption {
	return func(o *importOptions) {
		o.progress = fn
	}
}

// WithReportEvery sets how many rows pass between progress callbacks
func WithReportEvery(n int) ImportOption {
	return func(o *importOptions) {
		if n > 0 {
			o.reportEvery = n
		}
	}
}

// ImportCustomerData loads the CSV at path into the customers table. If the
// table already has rows the import is skipped and reported as success. All
// inserts run in one transaction that is committed after the last row; any
// failure rolls the whole import back. An empty path uses the configured CSV.
func (m *Manager) ImportCustomerData(ctx context.Context, path string, opts ...ImportOption) (*ImportResult, error) {
	if path == "" {
		path = m.csvPath
	}
	o := importOptions{reportEvery: config.ImportReportEvery}
	for _, opt := range opts {
		opt(&o)
	}

	conn, err := m.Connect(ctx, "")
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	start := time.Now()
	result := &ImportResult{Path: path}

	existing, err := conn.CountCustomers(ctx)
	if err != nil {
		log.Error().Err(err).Str("database", conn.Database()).Msg("Error importing customer data")
		return nil, err
	}
	if existing > 0 {
		log.Info().Int64("rows", existing).Msg("Customer table already populated, skipping import")
		result.Skipped = true
		result.Existing = existing
		result.Duration = time.Since(start)
		return result, nil
	}

	rows, err := importFile(ctx, conn, path, o)
	if err != nil {
		log.Error().Err(err).Str("path", path).Int("rows", rows).Msg("Error importing customer data")
		if rbErr := conn.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to rollback import")
		}
		return nil, err
	}

	if err := conn.Commit(); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Error committing customer data")
		return nil, err
	}

	result.Rows = rows
	result.Duration = time.Since(start)
	log.Info().
		Str("path", path).
		Int("rows", rows).
		Dur("duration", result.Duration).
		Msg("Customer data imported")
	return result, nil
}

func importFile(ctx context.Context, conn *Conn, path string, o importOptions) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrImport, err)
	}
	defer f.Close()

	return importCSV(ctx, conn, f, o)
}

// importCSV discards the header line and inserts every remaining record
// positionally, in the order of models.CSVHeader.
func importCSV(ctx context.Context, conn *Conn, r io.Reader, o importOptions) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(models.CSVHeader)

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: missing header row", ErrImport)
		}
		return 0, fmt.Errorf("%w: header: %w", ErrImport, err)
	}

	dec, err := csvutil.NewDecoder(cr, models.CSVHeader...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrImport, err)
	}
	dec.Register(unmarshalDate)

	insert := conn.Rebind(insertCustomerSQL)
	rows := 0
	for {
		if err := ctx.Err(); err != nil {
			return rows, err
		}

		var c models.Customer
		err := dec.Decode(&c)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("%w: %w", ErrImport, &RowError{Line: recordLine(cr, err), Err: err})
		}

		if _, err := conn.Exec(ctx, insert, insertArgs(&c)...); err != nil {
			line, _ := cr.FieldPos(0)
			return rows, &RowError{Line: line, Err: err}
		}

		rows++
		if o.progress != nil && rows%o.reportEvery == 0 {
			o.progress(rows)
		}
	}

	if o.progress != nil {
		o.progress(rows)
	}
	return rows, nil
}

// recordLine finds the file line of the record that failed to decode
func recordLine(cr *csv.Reader, err error) int {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.StartLine
	}
	line, _ := cr.FieldPos(0)
	return line
}

func unmarshalDate(data []byte, t *time.Time) error {
	parsed, err := time.Parse(models.DateLayout, strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("invalid subscription_date %q: want YYYY-MM-DD", string(data))
	}
	*t = parsed
	return nil
}

// insertArgs follows the column order of insertCustomerSQL. Dates are sent
// as YYYY-MM-DD text so every driver stores a plain DATE.
func insertArgs(c *models.Customer) []any {
	return []any{
		c.Index,
		c.CustomerID,
		c.FirstName,
		c.LastName,
		c.Company,
		c.City,
		c.Country,
		c.Phone1,
		c.Phone2,
		c.Email,
		c.SubscriptionDate.Format(models.DateLayout),
		c.Website,
	}
}
