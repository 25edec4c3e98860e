package output

import (
	"bufio"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// YAMLWriter writes all records as one YAML sequence on Flush.
type YAMLWriter struct {
	w       *bufio.Writer
	records []roster.Record
	flushed bool
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:       bufio.NewWriter(w),
		records: make([]roster.Record, 0),
	}
}

// WriteAll buffers records.
func (w *YAMLWriter) WriteAll(records []roster.Record) error {
	w.records = append(w.records, records...)
	return nil
}

// Flush writes the buffered records. Later calls are no-ops.
func (w *YAMLWriter) Flush() error {
	if w.flushed {
		return nil
	}
	w.flushed = true

	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(w.records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
