package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/willfong/custdb/internal/models"
)

// Sample query names, also used as keys in SampleReport.Errors
const (
	QueryTotalCustomers  = "total_customers"
	QueryTopCountries    = "top_countries"
	QueryCustomersByYear = "customers_by_year"
	QueryRandomCustomers = "random_customers"
)

// CountryCount is one row of the top-countries query
type CountryCount struct {
	Country string `db:"country" json:"country" yaml:"country"`
	Count   int64  `db:"customer_count" json:"customer_count" yaml:"customer_count"`
}

// YearCount is one row of the subscriptions-per-year query
type YearCount struct {
	Year  int   `db:"sub_year" json:"year" yaml:"year"`
	Count int64 `db:"total" json:"count" yaml:"count"`
}

// SampleReport holds the results of ExecuteSampleQueries keyed by query
// name. A query that failed has an entry in Errors and a zero value field.
type SampleReport struct {
	TotalCustomers  int64                    `json:"total_customers" yaml:"total_customers"`
	TopCountries    []CountryCount           `json:"top_countries" yaml:"top_countries"`
	CustomersByYear []YearCount              `json:"customers_by_year" yaml:"customers_by_year"`
	RandomCustomers []models.CustomerSummary `json:"random_customers" yaml:"random_customers"`
	Errors          map[string]string        `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// OK reports whether every sample query succeeded
func (r *SampleReport) OK() bool {
	return len(r.Errors) == 0
}

func (r *SampleReport) recordError(name string, err error) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[name] = err.Error()
}

// ExecuteSampleQueries runs the four fixed read-only queries. A failing
// query is recorded in the report and does not stop the others; only a
// connection failure is returned as an error.
func (m *Manager) ExecuteSampleQueries(ctx context.Context) (*SampleReport, error) {
	conn, err := m.Connect(ctx, "")
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// Each query stands alone so one failure cannot abort the transaction
	// the others would run in
	if err := conn.SetAutocommit(true); err != nil {
		return nil, err
	}

	report := &SampleReport{
		TopCountries:    []CountryCount{},
		CustomersByYear: []YearCount{},
		RandomCustomers: []models.CustomerSummary{},
	}

	if n, err := conn.CountCustomers(ctx); err != nil {
		report.recordError(QueryTotalCustomers, err)
	} else {
		report.TotalCustomers = n
	}

	topCountries := "SELECT country, COUNT(*) AS customer_count FROM " + CustomersTable +
		" GROUP BY country ORDER BY customer_count DESC, country LIMIT 5"
	if err := conn.selectInto(ctx, &report.TopCountries, topCountries); err != nil {
		report.recordError(QueryTopCountries, conn.fail(err, QueryTopCountries))
	}

	year := m.dialect.YearExpr("subscription_date")
	byYear := "SELECT " + year + " AS sub_year, COUNT(*) AS total FROM " + CustomersTable +
		" GROUP BY " + year + " ORDER BY sub_year"
	if err := conn.selectInto(ctx, &report.CustomersByYear, byYear); err != nil {
		report.recordError(QueryCustomersByYear, conn.fail(err, QueryCustomersByYear))
	}

	random := "SELECT " + summaryColumns + " FROM " + CustomersTable +
		" ORDER BY " + m.dialect.RandomFunc() + " LIMIT 5"
	if err := conn.selectInto(ctx, &report.RandomCustomers, random); err != nil {
		report.recordError(QueryRandomCustomers, conn.fail(err, QueryRandomCustomers))
	}

	if !report.OK() {
		log.Warn().Int("failed", len(report.Errors)).Msg("Some sample queries failed")
	}
	return report, nil
}
