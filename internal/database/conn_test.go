package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAndClose(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	_, err := m.CreateDatabase(ctx)
	require.NoError(t, err)

	conn, err := m.Connect(ctx, "")
	require.NoError(t, err)
	assert.False(t, conn.Closed())
	assert.Equal(t, "custdb_test", conn.Database())

	require.NoError(t, conn.Close())
	assert.True(t, conn.Closed())

	// Closing twice is a no-op
	assert.NoError(t, conn.Close())

	_, err = conn.Execute(ctx, "SELECT 1", nil, false)
	assert.ErrorIs(t, err, ErrClosed)

	again, err := m.Connect(ctx, "")
	require.NoError(t, err)
	defer again.Close()
	assert.False(t, again.Closed())

	res, err := again.Execute(ctx, "SELECT 1", nil, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())
}

func TestConnectFailure(t *testing.T) {
	m := newTestManager(t)

	// The data directory is only created by CreateDatabase
	_, err := m.Connect(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnect)
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	m := newLoadedManager(t)
	conn := connect(t, m)

	t.Run("bound parameters", func(t *testing.T) {
		res, err := conn.Execute(ctx,
			"SELECT customer_id, first_name FROM customers WHERE country = ? ORDER BY customer_index",
			[]any{"Chile"}, false)
		require.NoError(t, err)
		assert.True(t, res.HasResultSet())
		assert.Equal(t, []string{"customer_id", "first_name"}, res.Columns)
		require.Equal(t, 3, res.Len())
		assert.Equal(t, "DD37Cf93aecA6Dc", res.Rows[0][0])
		assert.Equal(t, "Sheryl", res.Rows[0][1])
	})

	t.Run("zero rows is not an error", func(t *testing.T) {
		res, err := conn.Execute(ctx, "SELECT customer_id FROM customers WHERE country = ?", []any{"Atlantis"}, false)
		require.NoError(t, err)
		assert.True(t, res.HasResultSet())
		assert.Equal(t, 0, res.Len())
	})

	t.Run("no result set", func(t *testing.T) {
		res, err := conn.Execute(ctx, "CREATE TABLE IF NOT EXISTS scratch (v INTEGER)", nil, true)
		require.NoError(t, err)
		assert.False(t, res.HasResultSet())
		assert.Equal(t, 0, res.Len())
	})

	t.Run("failure is distinguishable", func(t *testing.T) {
		res, err := conn.Execute(ctx, "SELECT nope FROM missing_table", nil, false)
		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, ErrQuery))
		require.NoError(t, conn.Rollback())
	})
}

func TestExecuteCommit(t *testing.T) {
	ctx := context.Background()
	m := newLoadedManager(t)

	setup := connect(t, m)
	_, err := setup.Execute(ctx, "CREATE TABLE scratch (v INTEGER)", nil, true)
	require.NoError(t, err)

	// Uncommitted work is rolled back on Close
	conn, err := m.Connect(ctx, "")
	require.NoError(t, err)
	_, err = conn.Execute(ctx, "INSERT INTO scratch (v) VALUES (?)", []any{1}, false)
	require.NoError(t, err)
	assert.True(t, conn.InTransaction())
	require.NoError(t, conn.Close())

	res, err := setup.Execute(ctx, "SELECT v FROM scratch", nil, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
	require.NoError(t, setup.Rollback())

	// commit=true makes it durable
	conn, err = m.Connect(ctx, "")
	require.NoError(t, err)
	_, err = conn.Execute(ctx, "INSERT INTO scratch (v) VALUES (?)", []any{2}, true)
	require.NoError(t, err)
	assert.False(t, conn.InTransaction())
	require.NoError(t, conn.Close())

	res, err = setup.Execute(ctx, "SELECT v FROM scratch", nil, false)
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())
	assert.EqualValues(t, 2, res.Rows[0][0])
}

func TestSetAutocommit(t *testing.T) {
	ctx := context.Background()
	m := newLoadedManager(t)
	conn := connect(t, m)

	_, err := conn.CountCustomers(ctx)
	require.NoError(t, err)
	require.True(t, conn.InTransaction())

	assert.Error(t, conn.SetAutocommit(true), "cannot switch with an open transaction")

	require.NoError(t, conn.Commit())
	require.NoError(t, conn.SetAutocommit(true))

	_, err = conn.CountCustomers(ctx)
	require.NoError(t, err)
	assert.False(t, conn.InTransaction())
}

func TestConnStats(t *testing.T) {
	ctx := context.Background()
	m := newLoadedManager(t)
	conn := connect(t, m)

	_, _ = conn.Execute(ctx, "SELECT 1", nil, false)
	_, _ = conn.Execute(ctx, "SELECT * FROM missing_table", nil, false)

	stats := conn.Stats()
	assert.EqualValues(t, 2, stats.TotalQueries)
	assert.EqualValues(t, 1, stats.FailedQueries)
}
