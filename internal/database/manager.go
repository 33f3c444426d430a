package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/willfong/custdb/internal/config"
)

// Manager provisions and queries the customer database described by its
// configuration. It holds no connection itself: every operation acquires a
// Conn with Connect and releases it before returning.
type Manager struct {
	cfg     config.DatabaseConfig
	csvPath string
	dialect Dialect
}

// New creates a Manager for cfg. cfg should already be validated.
func New(cfg *config.Config) (*Manager, error) {
	d, err := DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	if !config.ValidIdentifier(cfg.Database.Name) {
		return nil, fmt.Errorf("invalid database name %q", cfg.Database.Name)
	}
	return &Manager{
		cfg:     cfg.Database,
		csvPath: cfg.CSVPath,
		dialect: d,
	}, nil
}

// Dialect returns the SQL dialect in use
func (m *Manager) Dialect() Dialect {
	return m.dialect
}

// DatabaseName returns the configured primary database
func (m *Manager) DatabaseName() string {
	return m.cfg.Name
}

// Connect opens a connection to database, or to the configured primary
// database when database is empty. The caller must Close the returned Conn.
func (m *Manager) Connect(ctx context.Context, database string) (*Conn, error) {
	if database == "" {
		database = m.cfg.Name
	}
	return m.connect(ctx, database)
}

// connect opens database verbatim; an empty name selects no database.
func (m *Manager) connect(ctx context.Context, database string) (*Conn, error) {
	conn, err := m.open(ctx, database)
	if err != nil {
		log.Error().Err(err).
			Str("driver", m.dialect.Name()).
			Str("database", database).
			Msg("Error connecting to database")
		return nil, err
	}
	log.Debug().Str("driver", m.dialect.Name()).Str("database", database).Msg("Connected")
	return conn, nil
}

func (m *Manager) open(ctx context.Context, database string) (*Conn, error) {
	pool, err := NewPool(m.dialect, m.cfg, database)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	if err := pool.Connect(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	sc, err := pool.DB().Connx(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	return &Conn{
		pool:     pool,
		conn:     sc,
		dialect:  m.dialect,
		database: database,
	}, nil
}
