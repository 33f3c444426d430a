package database

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willfong/custdb/internal/generator"
	"github.com/willfong/custdb/internal/models"
)

const csvHeader = "Index,Customer Id,First Name,Last Name,Company,City,Country,Phone 1,Phone 2,Email,Subscription Date,Website\n"

func provisioned(t *testing.T) *Manager {
	t.Helper()

	ctx := context.Background()
	m := newTestManager(t)
	_, err := m.CreateDatabase(ctx)
	require.NoError(t, err)
	require.NoError(t, m.CreateCustomerTable(ctx))
	return m
}

func countRows(t *testing.T, m *Manager) int64 {
	t.Helper()

	conn, err := m.Connect(context.Background(), "")
	require.NoError(t, err)
	defer conn.Close()

	n, err := conn.CountCustomers(context.Background())
	require.NoError(t, err)
	return n
}

func TestImportCustomerData(t *testing.T) {
	ctx := context.Background()
	m := provisioned(t)

	res, err := m.ImportCustomerData(ctx, fixtureCSV)
	require.NoError(t, err)
	assert.Equal(t, fixtureRows, res.Rows)
	assert.False(t, res.Skipped)
	assert.EqualValues(t, fixtureRows, countRows(t, m))

	t.Run("fields land in the right columns", func(t *testing.T) {
		conn := connect(t, m)
		r, err := conn.Execute(ctx,
			"SELECT customer_index, company, phone_2, email, subscription_date, website FROM customers WHERE customer_id = ?",
			[]any{"5Cef8BFA16c5e3c"}, false)
		require.NoError(t, err)
		require.Equal(t, 1, r.Len())

		row := r.Rows[0]
		assert.EqualValues(t, 4, row[0])
		assert.Equal(t, "Dominguez, Mcmillan and Donovan", row[1])
		assert.Equal(t, "+1-813-324-8756", row[2])
		assert.Equal(t, "stanleyblackwell@leonard.com", row[3])
		assert.Contains(t, toString(row[4]), "2021-06-02")
		assert.Equal(t, "http://www.good-lyons.com/", row[5])
	})

	t.Run("second import is skipped", func(t *testing.T) {
		res, err := m.ImportCustomerData(ctx, fixtureCSV)
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.EqualValues(t, fixtureRows, res.Existing)
		assert.EqualValues(t, fixtureRows, countRows(t, m))
	})
}

func TestImportUsesConfiguredPath(t *testing.T) {
	m := provisioned(t)

	res, err := m.ImportCustomerData(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, fixtureCSV, res.Path)
	assert.Equal(t, fixtureRows, res.Rows)
}

func TestImportProgress(t *testing.T) {
	m := provisioned(t)

	var calls []int
	_, err := m.ImportCustomerData(context.Background(), fixtureCSV,
		WithReportEvery(3),
		WithProgress(func(rows int) { calls = append(calls, rows) }),
	)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 6, 9, 10}, calls)
}

func TestImportFailuresRollBack(t *testing.T) {
	good := "1,AAAA000000000001,Ada,Lovelace,Engines Ltd,London,United Kingdom,1,2,ada@example.com,2021-03-04,https://example.com\n"

	tests := []struct {
		name     string
		content  string
		wantLine int
		wantText string
	}{
		{
			name:     "wrong column count",
			content:  csvHeader + good + "2,BBBB000000000002,Grace,Hopper,Navy,Arlington,United States,1,2,grace@example.com,2021-03-04\n",
			wantLine: 3,
			wantText: "wrong number of fields",
		},
		{
			name:     "unparseable date",
			content:  csvHeader + good + "2,BBBB000000000002,Grace,Hopper,Navy,Arlington,United States,1,2,grace@example.com,04/03/2021,https://example.com\n",
			wantLine: 3,
			wantText: "subscription_date",
		},
		{
			name:     "non-numeric index",
			content:  csvHeader + "one,AAAA000000000001,Ada,Lovelace,Engines Ltd,London,United Kingdom,1,2,ada@example.com,2021-03-04,https://example.com\n",
			wantLine: 2,
		},
		{
			name:     "duplicate customer id",
			content:  csvHeader + good + strings.Replace(good, "1,", "2,", 1),
			wantLine: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := provisioned(t)

			_, err := m.ImportCustomerData(context.Background(), writeCSV(t, tt.content))
			require.Error(t, err)

			var rowErr *RowError
			require.ErrorAs(t, err, &rowErr)
			assert.Equal(t, tt.wantLine, rowErr.Line)
			if tt.wantText != "" {
				assert.Contains(t, err.Error(), tt.wantText)
			}

			// Rows inserted before the failure are rolled back
			assert.Zero(t, countRows(t, m))
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	m := provisioned(t)

	_, err := m.ImportCustomerData(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImport)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestImportEmptyFile(t *testing.T) {
	m := provisioned(t)

	_, err := m.ImportCustomerData(context.Background(), writeCSV(t, ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImport)
	assert.Contains(t, err.Error(), "missing header")
}

func TestImportHeaderOnly(t *testing.T) {
	m := provisioned(t)

	res, err := m.ImportCustomerData(context.Background(), writeCSV(t, csvHeader))
	require.NoError(t, err)
	assert.Zero(t, res.Rows)
	assert.Zero(t, countRows(t, m))
}

func TestImportWithoutTable(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	_, err := m.CreateDatabase(ctx)
	require.NoError(t, err)

	_, err = m.ImportCustomerData(ctx, fixtureCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuery)
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case time.Time:
		return s.Format(models.DateLayout)
	default:
		return ""
	}
}

func TestImportGeneratedDataset(t *testing.T) {
	ctx := context.Background()
	m := provisioned(t)

	path := filepath.Join(t.TempDir(), "generated.csv")
	gen, err := generator.WriteCustomers(ctx, path, generator.Options{Rows: 250, Seed: 11})
	require.NoError(t, err)

	res, err := m.ImportCustomerData(ctx, path)
	require.NoError(t, err)
	assert.EqualValues(t, gen.Rows, res.Rows)

	conn := connect(t, m)
	months, err := conn.CountByMonth(ctx)
	require.NoError(t, err)

	var total int64
	for month, n := range months {
		assert.True(t, month >= 1 && month <= 12, "month %d", month)
		total += n
	}
	assert.EqualValues(t, 250, total)
}
