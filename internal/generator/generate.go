package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/willfong/custdb/internal/config"
	"github.com/willfong/custdb/internal/data"
	"github.com/willfong/custdb/internal/models"
	"github.com/willfong/custdb/internal/utils"
)

// Options controls a generation run
type Options struct {
	// Number of customers to write
	Rows int
	// Seed for the RNG; 0 picks a random seed
	Seed int64
	// Subscription date range. Zero values use the configured defaults.
	From time.Time
	To   time.Time

	// Progress is called with the rows written so far, every ReportEvery
	// rows and once at the end
	Progress    func(rows int)
	ReportEvery int
}

// Result holds statistics from the generation run
type Result struct {
	Path     string        `json:"path" yaml:"path"`
	Rows     int64         `json:"rows" yaml:"rows"`
	Seed     uint64        `json:"seed" yaml:"seed"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// DefaultDateRange returns the configured subscription date bounds
func DefaultDateRange() (time.Time, time.Time) {
	from, _ := time.Parse(models.DateLayout, config.GenerateFrom)
	to, _ := time.Parse(models.DateLayout, config.GenerateTo)
	return from, to
}

// WriteCustomers generates opts.Rows customers into a new CSV at path
// ("-" for stdout), header included.
func WriteCustomers(ctx context.Context, path string, opts Options) (*Result, error) {
	w, err := NewCSVWriter(CSVWriterConfig{
		Path:    path,
		Headers: models.CSVDisplayHeader,
	})
	if err != nil {
		return nil, err
	}

	res, err := Generate(ctx, w, opts)
	if closeErr := w.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Generate writes opts.Rows customers to w. The caller closes w.
func Generate(ctx context.Context, w *CSVWriter, opts Options) (*Result, error) {
	if opts.Rows < 0 {
		return nil, fmt.Errorf("rows must not be negative, got %d", opts.Rows)
	}

	refData, err := data.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	from, to := DefaultDateRange()
	if !opts.From.IsZero() {
		from = opts.From
	}
	if !opts.To.IsZero() {
		to = opts.To
	}
	if to.Before(from) {
		return nil, fmt.Errorf("date range is empty: %s is before %s",
			to.Format(models.DateLayout), from.Format(models.DateLayout))
	}

	reportEvery := opts.ReportEvery
	if reportEvery <= 0 {
		reportEvery = config.ImportReportEvery
	}

	rng := utils.NewRandom(opts.Seed)
	gen := NewCustomerGenerator(rng, refData, CustomerGeneratorConfig{From: from, To: to})

	start := time.Now()
	log.Debug().Int("rows", opts.Rows).Uint64("seed", rng.Seed()).Msg("Generating customers")

	for i := 1; i <= opts.Rows; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c := gen.Generate(i)
		if err := w.WriteRow(c.Record()); err != nil {
			return nil, err
		}

		if opts.Progress != nil && i%reportEvery == 0 {
			opts.Progress(i)
		}
	}
	if opts.Progress != nil {
		opts.Progress(opts.Rows)
	}

	res := &Result{
		Path:     w.Path(),
		Rows:     w.RowCount(),
		Seed:     rng.Seed(),
		Duration: time.Since(start),
	}
	log.Info().
		Str("path", res.Path).
		Int64("rows", res.Rows).
		Uint64("seed", res.Seed).
		Dur("duration", res.Duration).
		Msg("Customers generated")
	return res, nil
}
