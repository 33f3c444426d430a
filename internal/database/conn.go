package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// runner is satisfied by both *sqlx.Conn and *sqlx.Tx
type runner interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// Result holds the outcome of Execute. A statement that produced no result
// set has no Columns; a query that matched nothing has Columns but no Rows.
type Result struct {
	Columns []string
	Rows    [][]any
}

// HasResultSet reports whether the statement returned a result set
func (r *Result) HasResultSet() bool {
	return r != nil && len(r.Columns) > 0
}

// Len returns the number of rows fetched
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Conn is one open connection to one database. It pins a single physical
// connection from its pool. Unless autocommit is enabled, statements run in
// an implicit transaction that begins with the first statement and ends
// with Commit, Rollback or Close. Close rolls back anything uncommitted.
//
// A Conn is not safe for concurrent use.
type Conn struct {
	pool       *Pool
	conn       *sqlx.Conn
	tx         *sqlx.Tx
	dialect    Dialect
	database   string
	autocommit bool
	closed     bool
}

// Database returns the name of the database this handle is connected to
func (c *Conn) Database() string {
	return c.database
}

// Dialect returns the SQL dialect of the connection
func (c *Conn) Dialect() Dialect {
	return c.dialect
}

// Closed reports whether Close has been called
func (c *Conn) Closed() bool {
	return c == nil || c.closed
}

// InTransaction reports whether an implicit transaction is open
func (c *Conn) InTransaction() bool {
	return c.tx != nil
}

// Stats returns query statistics for this handle
func (c *Conn) Stats() PoolStats {
	return c.pool.Stats()
}

// Rebind converts ? placeholders to the dialect's bind style
func (c *Conn) Rebind(query string) string {
	return sqlx.Rebind(sqlx.BindType(c.dialect.DriverName()), query)
}

// SetAutocommit switches between implicit-transaction mode (the default)
// and running every statement on its own. It cannot change while a
// transaction is open.
func (c *Conn) SetAutocommit(on bool) error {
	if c.closed {
		return ErrClosed
	}
	if c.tx != nil && on != c.autocommit {
		return errors.New("cannot change autocommit while a transaction is open")
	}
	c.autocommit = on
	return nil
}

// Execute runs a single statement with positional bound parameters. The
// query is sent verbatim, so placeholders must match the dialect ($1 for
// PostgreSQL, ? for MySQL and SQLite). All result rows are fetched. When
// commit is true the current transaction is committed afterwards.
func (c *Conn) Execute(ctx context.Context, query string, params []any, commit bool) (*Result, error) {
	res, err := c.execute(ctx, query, params)
	if err != nil {
		log.Error().Err(err).Str("database", c.database).Msg("Error executing query")
		return nil, err
	}
	if commit {
		if err := c.Commit(); err != nil {
			log.Error().Err(err).Str("database", c.database).Msg("Error committing query")
			return nil, err
		}
	}
	return res, nil
}

func (c *Conn) execute(ctx context.Context, query string, params []any) (*Result, error) {
	r, err := c.runner(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := r.QueryxContext(ctx, query, params...)
	c.pool.recordQuery(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	res := &Result{Columns: columns}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrQuery, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return res, nil
}

// Exec runs a statement that returns no rows and reports rows affected.
// Errors are returned unlogged; callers decide how to report them.
func (c *Conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	r, err := c.runner(ctx)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	res, err := r.ExecContext(ctx, query, args...)
	c.pool.recordQuery(time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		// Not every driver reports it for DDL
		return 0, nil
	}
	return n, nil
}

// Commit ends the implicit transaction. It is a no-op when none is open.
func (c *Conn) Commit() error {
	if c.closed {
		return ErrClosed
	}
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrQuery, err)
	}
	return nil
}

// Rollback discards the implicit transaction. It is a no-op when none is open.
func (c *Conn) Rollback() error {
	if c.closed {
		return ErrClosed
	}
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("%w: rollback: %w", ErrQuery, err)
	}
	return nil
}

// Close rolls back any open transaction and releases the connection and its
// pool. Calling Close more than once is a no-op.
func (c *Conn) Close() error {
	if c == nil || c.closed {
		return nil
	}

	var errs []error
	if c.tx != nil {
		log.Debug().Str("database", c.database).Msg("Rolling back uncommitted transaction")
		if err := c.Rollback(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closed = true

	stats := c.pool.Stats()
	log.Debug().
		Str("database", c.database).
		Int64("queries", stats.TotalQueries).
		Int64("failed", stats.FailedQueries).
		Dur("avg_latency", stats.AvgLatency).
		Msg("Closing connection")

	if err := c.conn.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.pool.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// runner returns where the next statement should run, beginning the
// implicit transaction if needed.
func (c *Conn) runner(ctx context.Context) (runner, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.autocommit {
		return c.conn, nil
	}
	if c.tx == nil {
		tx, err := c.conn.BeginTxx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: begin: %w", ErrQuery, err)
		}
		c.tx = tx
	}
	return c.tx, nil
}
