package database

import (
	"errors"
	"fmt"
)

// Error categories. Operations wrap these together with the underlying
// cause, so callers can use errors.Is for the category and errors.As for
// driver-specific details.
var (
	// ErrConnect means the database could not be opened or pinged
	ErrConnect = errors.New("connection failed")

	// ErrQuery means a statement failed to execute
	ErrQuery = errors.New("query failed")

	// ErrImport means the CSV file could not be read or a row was malformed
	ErrImport = errors.New("import failed")

	// ErrClosed is returned when a closed Conn is used
	ErrClosed = errors.New("connection is closed")
)

// RowError reports a CSV row that could not be decoded or inserted.
// Line is the 1-based line number in the file, header included.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
