// Package fetcher retrieves roster and profile pages. The static fetcher
// covers most athletic sites; the dynamic fetcher renders script-built pages
// in a headless browser for teams whose policy requires it.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static", "dynamic").
	Type() string
}

// Options controls fetching behavior.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	WaitForSelector string        // CSS selector to wait for (dynamic fetchers)
	WaitDuration    time.Duration // Additional wait after load
	Headers         map[string]string
}

// Content represents fetched page data.
type Content struct {
	URL         string    `json:"url"`
	HTML        string    `json:"html"`
	Title       string    `json:"title"`
	StatusCode  int       `json:"status_code"`
	ContentType string    `json:"content_type"`
	FetchedAt   time.Time `json:"fetched_at"`
	Cached      bool      `json:"-"`
}

// Mode selects a fetch strategy.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
)

// Config holds common fetcher configuration.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Chrome user agent for better compatibility
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: defaultUserAgent,
		Timeout:   30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	return c
}

// New creates a fetcher for mode.
func New(mode Mode, cfg Config) (Fetcher, error) {
	switch mode {
	case ModeStatic, "":
		return NewStatic(cfg), nil
	case ModeDynamic:
		return NewDynamic(cfg)
	case ModeAuto:
		return NewAuto(cfg)
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s", mode)
	}
}

// ErrStatus is returned for a non-2xx response. Check with
// errors.Is(err, fetcher.ErrStatus).
var ErrStatus = errors.New("unexpected HTTP status")

// StatusError wraps ErrStatus with the response code.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d fetching %s", ErrStatus, e.Code, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
