package generator

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/willfong/custdb/internal/config"
)

// CSVWriter streams rows through a buffered encoding/csv writer, so memory
// use does not grow with the number of rows.
type CSVWriter struct {
	closer   io.Closer // nil when writing to a caller-owned stream
	path     string
	buffer   *bufio.Writer
	writer   *csv.Writer
	mu       sync.Mutex
	rowCount int64
	closed   bool
}

// CSVWriterConfig holds configuration for creating a CSV writer
type CSVWriterConfig struct {
	// Path of the file to create. "-" writes to Output instead.
	Path string
	// Output is used when Path is "-" (defaults to os.Stdout)
	Output io.Writer
	// Column headers
	Headers []string
	// Buffer size in bytes (default: 64KB)
	BufferSize int
}

// NewCSVWriter creates a new streaming CSV writer.
// The file is created immediately and headers are written.
func NewCSVWriter(cfg CSVWriterConfig) (*CSVWriter, error) {
	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = config.GenerateBufferSize
	}

	var (
		underlying io.Writer
		closer     io.Closer
		path       = cfg.Path
	)

	if cfg.Path == "-" {
		underlying = cfg.Output
		if underlying == nil {
			underlying = os.Stdout
		}
	} else {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		file, err := os.Create(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create file %s: %w", cfg.Path, err)
		}
		underlying = file
		closer = file
	}

	buffer := bufio.NewWriterSize(underlying, bufSize)
	cw := &CSVWriter{
		closer: closer,
		path:   path,
		buffer: buffer,
		writer: csv.NewWriter(buffer),
	}

	if len(cfg.Headers) > 0 {
		if err := cw.writer.Write(cfg.Headers); err != nil {
			cw.closeUnderlying()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return cw, nil
}

// WriteRow writes a single row to the CSV file.
// This method is thread-safe.
func (w *CSVWriter) WriteRow(row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.rowCount++

	return nil
}

// Flush forces any buffered data to be written out.
func (w *CSVWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("csv flush error: %w", err)
	}
	return w.buffer.Flush()
}

// Close flushes remaining data and closes the file.
// Always call Close when done writing.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.closeUnderlying()
		return fmt.Errorf("csv flush error: %w", err)
	}

	if err := w.buffer.Flush(); err != nil {
		w.closeUnderlying()
		return fmt.Errorf("buffer flush error: %w", err)
	}

	return w.closeUnderlying()
}

func (w *CSVWriter) closeUnderlying() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// RowCount returns the number of data rows written (excludes header).
func (w *CSVWriter) RowCount() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rowCount
}

// Path returns the output path, "-" for a stream
func (w *CSVWriter) Path() string {
	return w.path
}
