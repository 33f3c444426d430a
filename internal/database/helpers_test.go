package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willfong/custdb/internal/config"
)

const fixtureCSV = "testdata/customers.csv"

// fixtureRows is the number of data rows in testdata/customers.csv
const fixtureRows = 10

// newTestManager returns a sqlite-backed Manager whose database lives in a
// fresh temporary directory.
func newTestManager(t *testing.T) *Manager {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Database.Name = "custdb_test"
	cfg.CSVPath = fixtureCSV
	require.NoError(t, cfg.Validate())

	m, err := New(cfg)
	require.NoError(t, err)
	return m
}

// newLoadedManager provisions and imports the fixture
func newLoadedManager(t *testing.T) *Manager {
	t.Helper()

	m := newTestManager(t)
	_, err := m.Setup(context.Background(), "")
	require.NoError(t, err)
	return m
}

// connect opens the primary database and closes it when the test ends
func connect(t *testing.T, m *Manager) *Conn {
	t.Helper()

	conn, err := m.Connect(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// writeCSV writes content to a temp file and returns its path
func writeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func strptr(s string) *string { return &s }
