package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// CreateDatabase creates the configured database if it does not exist and
// reports whether it was created. It is safe to call repeatedly.
func (m *Manager) CreateDatabase(ctx context.Context) (bool, error) {
	name := m.cfg.Name

	var (
		created bool
		err     error
	)
	if fb, ok := m.dialect.(fileBacked); ok {
		created, err = m.createDatabaseFile(ctx, fb.DatabasePath(m.cfg, name))
	} else {
		created, err = m.createDatabaseOnServer(ctx, name)
	}
	if err != nil {
		log.Error().Err(err).Str("database", name).Msg("Error creating database")
		return false, err
	}

	if created {
		log.Info().Str("database", name).Msg("Database created")
	} else {
		log.Info().Str("database", name).Msg("Database already exists")
	}
	return created, nil
}

func (m *Manager) createDatabaseOnServer(ctx context.Context, name string) (bool, error) {
	conn, err := m.connect(ctx, m.dialect.AdminDatabase())
	if err != nil {
		return false, err
	}
	defer conn.Close()

	// CREATE DATABASE cannot run inside a transaction block on PostgreSQL
	if err := conn.SetAutocommit(true); err != nil {
		return false, err
	}

	res, err := conn.Execute(ctx, m.dialect.DatabaseExistsQuery(), []any{name}, false)
	if err != nil {
		return false, fmt.Errorf("check database: %w", err)
	}
	if res.Len() > 0 {
		return false, nil
	}

	log.Info().Str("database", name).Msg("Creating database")
	if _, err := conn.Exec(ctx, m.dialect.CreateDatabaseSQL(name)); err != nil {
		if m.dialect.IsAlreadyExists(err) {
			// Created concurrently between the check and the create
			return false, nil
		}
		return false, fmt.Errorf("create database: %w", err)
	}
	return true, nil
}

func (m *Manager) createDatabaseFile(ctx context.Context, path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create data directory: %w", err)
		}
	}

	log.Info().Str("path", path).Msg("Creating database file")
	// Opening a sqlite database creates the file
	conn, err := m.Connect(ctx, "")
	if err != nil {
		return false, err
	}
	defer conn.Close()

	// Writing the header makes sure the file exists on disk
	if err := conn.SetAutocommit(true); err != nil {
		return false, err
	}
	if _, err := conn.Exec(ctx, "PRAGMA user_version = 1"); err != nil {
		return false, fmt.Errorf("initialize database file: %w", err)
	}
	return true, nil
}

// CreateCustomerTable creates the customers table and its indexes if they
// do not exist. It is safe to call repeatedly.
func (m *Manager) CreateCustomerTable(ctx context.Context) error {
	conn, err := m.Connect(ctx, "")
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := m.createCustomerTable(ctx, conn); err != nil {
		log.Error().Err(err).Str("database", conn.Database()).Msg("Error creating customer table")
		return err
	}

	log.Info().
		Str("database", conn.Database()).
		Int("indexes", len(CustomerIndexes)).
		Msg("Customer table ready")
	return nil
}

func (m *Manager) createCustomerTable(ctx context.Context, conn *Conn) error {
	if err := conn.SetAutocommit(true); err != nil {
		return err
	}

	if _, err := conn.Exec(ctx, CreateTableSQL(m.dialect)); err != nil {
		return fmt.Errorf("create table %s: %w", CustomersTable, err)
	}

	for _, idx := range CustomerIndexes {
		if _, err := conn.Exec(ctx, m.dialect.CreateIndexSQL(idx)); err != nil {
			if m.dialect.IsAlreadyExists(err) {
				log.Debug().Str("index", idx.Name).Msg("Index already exists")
				continue
			}
			return fmt.Errorf("create index %s: %w", idx.Name, err)
		}
	}
	return nil
}
