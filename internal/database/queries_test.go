package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomersByCountry(t *testing.T) {
	conn := connect(t, newLoadedManager(t))
	ctx := context.Background()

	tests := []struct {
		name    string
		country *string
		want    []string
	}{
		{"two matches", strptr("China"), []string{"1Ef7b82A4CAAD10", "053d585Ab6b3159"}},
		{"three matches", strptr("Chile"), []string{"DD37Cf93aecA6Dc", "6F94879bDAfE5a6", "0e04AFde9f225dE"}},
		{"no such country", strptr("Atlantis"), nil},
		{"empty string", strptr(""), nil},
		{"case sensitive", strptr("china"), nil},
		{"null", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conn.CustomersByCountry(ctx, tt.country)
			require.NoError(t, err)
			require.NotNil(t, got)

			var ids []string
			for _, c := range got {
				ids = append(ids, c.CustomerID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCustomersByYear(t *testing.T) {
	conn := connect(t, newLoadedManager(t))
	ctx := context.Background()

	for year, want := range map[int]int{2020: 3, 2021: 4, 2022: 3, 1999: 0} {
		got, err := conn.CustomersByYear(ctx, year)
		require.NoError(t, err)
		assert.Len(t, got, want, "year %d", year)
	}
}

func TestCountByMonth(t *testing.T) {
	conn := connect(t, newLoadedManager(t))

	got, err := conn.CountByMonth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{1: 3, 3: 1, 4: 1, 6: 2, 8: 1, 12: 2}, got)

	var total int64
	for _, n := range got {
		total += n
	}
	assert.EqualValues(t, fixtureRows, total)
}

func TestCustomersByEmailDomain(t *testing.T) {
	conn := connect(t, newLoadedManager(t))
	ctx := context.Background()

	got, err := conn.CustomersByEmailDomain(ctx, "leonard.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Linda", got[0].FirstName)
	assert.Equal(t, "Linda Olsen", got[0].FullName())
	assert.Equal(t, "stanleyblackwell@leonard.com", got[0].Email)

	got, err = conn.CustomersByEmailDomain(ctx, "colon.com")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = conn.CustomersByEmailDomain(ctx, "example.invalid")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLookupWithoutTable(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	_, err := m.CreateDatabase(ctx)
	require.NoError(t, err)

	conn := connect(t, m)
	_, err = conn.CustomersByCountry(ctx, strptr("China"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuery)
}

func TestLookupOnClosedConn(t *testing.T) {
	m := newLoadedManager(t)
	conn, err := m.Connect(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = conn.CountCustomers(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.NotErrorIs(t, err, ErrQuery)
}
