// Package database provisions the customers schema, imports the CSV dataset
// and runs the analytic queries.
//
// FILE: queries.go
// PURPOSE: Read-only customer lookups that run on an open Conn. All
// queries are written with ? placeholders and rebound for the dialect.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/willfong/custdb/internal/models"
)

const summaryColumns = "customer_id, first_name, last_name, email, country"

// CountCustomers returns the number of rows in the customers table
func (c *Conn) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	if err := c.get(ctx, &n, "SELECT COUNT(*) FROM "+CustomersTable); err != nil {
		return 0, c.fail(err, "count customers")
	}
	return n, nil
}

// CustomersByCountry returns customers whose country equals country. A nil
// country binds SQL NULL, which matches nothing.
func (c *Conn) CustomersByCountry(ctx context.Context, country *string) ([]models.CustomerSummary, error) {
	var arg any
	if country != nil {
		arg = *country
	}

	query := "SELECT " + summaryColumns + " FROM " + CustomersTable +
		" WHERE country = ? ORDER BY customer_index"
	out := []models.CustomerSummary{}
	if err := c.selectInto(ctx, &out, query, arg); err != nil {
		return nil, c.fail(err, "customers by country")
	}
	return out, nil
}

// CustomersByYear returns customers who subscribed in year
func (c *Conn) CustomersByYear(ctx context.Context, year int) ([]models.CustomerSummary, error) {
	query := "SELECT " + summaryColumns + " FROM " + CustomersTable +
		" WHERE " + c.dialect.YearExpr("subscription_date") + " = ? ORDER BY customer_index"
	out := []models.CustomerSummary{}
	if err := c.selectInto(ctx, &out, query, year); err != nil {
		return nil, c.fail(err, "customers by year")
	}
	return out, nil
}

// CustomersByEmailDomain returns customers whose email ends with domain
func (c *Conn) CustomersByEmailDomain(ctx context.Context, domain string) ([]models.CustomerSummary, error) {
	query := "SELECT " + summaryColumns + " FROM " + CustomersTable +
		" WHERE email LIKE ? ORDER BY customer_index"
	out := []models.CustomerSummary{}
	if err := c.selectInto(ctx, &out, query, "%"+domain); err != nil {
		return nil, c.fail(err, "customers by email domain")
	}
	return out, nil
}

// CountByMonth returns subscription counts keyed by month (1-12). Months
// without subscriptions are absent.
func (c *Conn) CountByMonth(ctx context.Context) (map[int]int64, error) {
	month := c.dialect.MonthExpr("subscription_date")
	query := "SELECT " + month + " AS sub_month, COUNT(*) AS total FROM " + CustomersTable +
		" GROUP BY " + month + " ORDER BY sub_month"

	var rows []struct {
		Month int   `db:"sub_month"`
		Total int64 `db:"total"`
	}
	if err := c.selectInto(ctx, &rows, query); err != nil {
		return nil, c.fail(err, "count by month")
	}

	out := make(map[int]int64, len(rows))
	for _, r := range rows {
		out[r.Month] = r.Total
	}
	return out, nil
}

func (c *Conn) get(ctx context.Context, dest any, query string, args ...any) error {
	r, err := c.runner(ctx)
	if err != nil {
		return err
	}
	start := time.Now()
	err = sqlx.GetContext(ctx, r, dest, c.Rebind(query), args...)
	c.pool.recordQuery(time.Since(start), err)
	return err
}

func (c *Conn) selectInto(ctx context.Context, dest any, query string, args ...any) error {
	r, err := c.runner(ctx)
	if err != nil {
		return err
	}
	start := time.Now()
	err = sqlx.SelectContext(ctx, r, dest, c.Rebind(query), args...)
	c.pool.recordQuery(time.Since(start), err)
	return err
}

// fail logs and wraps a lookup error
func (c *Conn) fail(err error, what string) error {
	log.Error().Err(err).Str("database", c.database).Str("query", what).Msg("Error executing query")
	if errors.Is(err, ErrClosed) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrQuery, what, err)
}
