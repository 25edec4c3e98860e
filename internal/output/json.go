package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// JSONWriter writes all records as one JSON array on Flush.
type JSONWriter struct {
	w       *bufio.Writer
	pretty  bool
	indent  string
	records []roster.Record
	flushed bool
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:       bufio.NewWriter(w),
		pretty:  pretty,
		indent:  indent,
		records: make([]roster.Record, 0),
	}
}

// WriteAll buffers records for the array.
func (w *JSONWriter) WriteAll(records []roster.Record) error {
	w.records = append(w.records, records...)
	return nil
}

// Flush writes the buffered records as a JSON array. An empty run writes
// "[]". Later calls are no-ops.
func (w *JSONWriter) Flush() error {
	if w.flushed {
		return nil
	}
	w.flushed = true

	var data []byte
	var err error
	if w.pretty {
		data, err = json.MarshalIndent(w.records, "", w.indent)
	} else {
		data, err = json.Marshal(w.records)
	}
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	if _, err := w.w.Write(data); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes one JSON object per record.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	return &JSONLWriter{w: bw, enc: json.NewEncoder(bw)}
}

// WriteAll writes records as JSON lines and flushes, so partial runs leave
// complete lines behind.
func (w *JSONLWriter) WriteAll(records []roster.Record) error {
	for _, rec := range records {
		if err := w.enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
	return w.w.Flush()
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
