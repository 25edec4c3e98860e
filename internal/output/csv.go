package output

import (
	"encoding/csv"
	"io"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// CSVWriter writes records as rows in roster.Columns order.
type CSVWriter struct {
	w           *csv.Writer
	header      bool
	wroteHeader bool
}

// NewCSVWriter creates a CSV writer. The header row is written before the
// first batch, or on Flush when nothing was written.
func NewCSVWriter(w io.Writer, header bool) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w), header: header}
}

func (w *CSVWriter) writeHeader() error {
	if !w.header || w.wroteHeader {
		return nil
	}
	w.wroteHeader = true
	return w.w.Write(roster.Columns)
}

// WriteAll writes one row per record and flushes.
func (w *CSVWriter) WriteAll(records []roster.Record) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.w.Write(rec.Row()); err != nil {
			return err
		}
	}
	w.w.Flush()
	return w.w.Error()
}

// Flush flushes buffered rows.
func (w *CSVWriter) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}

// Close flushes the writer.
func (w *CSVWriter) Close() error {
	return w.Flush()
}
