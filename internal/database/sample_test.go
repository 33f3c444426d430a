package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteSampleQueries(t *testing.T) {
	m := newLoadedManager(t)

	report, err := m.ExecuteSampleQueries(context.Background())
	require.NoError(t, err)
	require.True(t, report.OK(), "errors: %v", report.Errors)

	assert.EqualValues(t, fixtureRows, report.TotalCustomers)

	assert.Equal(t, []CountryCount{
		{"Chile", 3},
		{"China", 2},
		{"Germany", 2},
		{"Japan", 1},
		{"Norway", 1},
	}, report.TopCountries)

	assert.Equal(t, []YearCount{
		{2020, 3},
		{2021, 4},
		{2022, 3},
	}, report.CustomersByYear)

	require.Len(t, report.RandomCustomers, 5)
	seen := map[string]bool{}
	for _, c := range report.RandomCustomers {
		assert.NotEmpty(t, c.CustomerID)
		assert.False(t, seen[c.CustomerID], "duplicate %s", c.CustomerID)
		seen[c.CustomerID] = true
	}
}

func TestExecuteSampleQueriesEmptyTable(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	_, err := m.CreateDatabase(ctx)
	require.NoError(t, err)
	require.NoError(t, m.CreateCustomerTable(ctx))

	report, err := m.ExecuteSampleQueries(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Zero(t, report.TotalCustomers)
	assert.Empty(t, report.TopCountries)
	assert.Empty(t, report.CustomersByYear)
	assert.Empty(t, report.RandomCustomers)
}

func TestExecuteSampleQueriesContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	_, err := m.CreateDatabase(ctx)
	require.NoError(t, err)

	// No table: every query fails, but each one is attempted
	report, err := m.ExecuteSampleQueries(ctx)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Len(t, report.Errors, 4)
	for _, name := range []string{QueryTotalCustomers, QueryTopCountries, QueryCustomersByYear, QueryRandomCustomers} {
		assert.Contains(t, report.Errors, name)
	}
}

func TestExecuteSampleQueriesConnectFailure(t *testing.T) {
	m := newTestManager(t)

	_, err := m.ExecuteSampleQueries(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnect)
}
