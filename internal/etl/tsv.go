package etl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	fieldSep = "\t"
	lineSep  = "\n"

	// flushThreshold bounds how much complete-line output is buffered in memory.
	flushThreshold = 64 << 10
)

// TableWriter is an append-only tab-separated sink. The header is written on
// first use; every row is one line. Output only ever reaches the underlying
// writer in whole lines, so an interrupted run leaves a valid prefix.
type TableWriter struct {
	w      io.Writer
	closer io.Closer
	header []string

	buf          bytes.Buffer
	headerIsDone bool
	rows         int
	closed       bool
}

func NewTableWriter(w io.Writer, header []string) *TableWriter {
	return &TableWriter{w: w, header: header}
}

// CreateTable creates (or truncates) dir/name and returns a writer that owns the file.
func CreateTable(dir, name string, header []string) (*TableWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir '%s': %w", dir, err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create table '%s': %w", path, err)
	}
	t := NewTableWriter(f, header)
	t.closer = f
	return t, nil
}

// WriteRow appends one line. Column count is the caller's responsibility.
func (t *TableWriter) WriteRow(row []string) error {
	if t.closed {
		return errors.New("write to closed table")
	}
	t.writeHeader()
	t.writeLine(row)
	t.rows++
	if t.buf.Len() >= flushThreshold {
		return t.Flush()
	}
	return nil
}

// Flush hands every buffered line to the underlying writer.
func (t *TableWriter) Flush() error {
	if t.buf.Len() == 0 {
		return nil
	}
	_, err := t.w.Write(t.buf.Bytes())
	t.buf.Reset()
	if err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return nil
}

// Rows reports how many rows were written, excluding the header.
func (t *TableWriter) Rows() int {
	return t.rows
}

// Close writes the header if no row did, flushes and releases the file.
// Calling Close more than once is a no-op.
func (t *TableWriter) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.writeHeader()

	err := t.Flush()
	if t.closer != nil {
		if cerr := t.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (t *TableWriter) writeHeader() {
	if t.headerIsDone {
		return
	}
	t.headerIsDone = true
	t.writeLine(t.header)
}

func (t *TableWriter) writeLine(fields []string) {
	t.buf.WriteString(strings.Join(fields, fieldSep))
	t.buf.WriteString(lineSep)
}
