// Package output serializes roster records.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// ParseFormat parses an output format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONL, FormatYAML, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// Writer receives records as teams finish. Streaming formats write each
// batch immediately; document formats buffer until Flush.
type Writer interface {
	// WriteAll outputs one team's records.
	WriteAll(records []roster.Record) error

	// Flush ensures all data is written.
	Flush() error

	// Close flushes and releases resources.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
	header bool
}

// WithPretty enables pretty-printing for JSON.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the JSON indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// WithHeader controls the CSV header row.
func WithHeader(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.header = enabled
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
		header: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	case FormatCSV:
		return NewCSVWriter(w, cfg.header), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
