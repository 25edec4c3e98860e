package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/soccer-rosters/internal/logger"
)

// AutoFetcher fetches statically and re-renders in the browser only when the
// static page looks like an unrendered script shell.
type AutoFetcher struct {
	static  Fetcher
	dynamic Fetcher
}

// NewAuto creates a fetcher that auto-detects JS requirements.
func NewAuto(cfg Config) (*AutoFetcher, error) {
	dynamic, err := NewDynamic(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic fetcher: %w", err)
	}
	return &AutoFetcher{static: NewStatic(cfg), dynamic: dynamic}, nil
}

// Fetch tries static first, then falls back to dynamic if needed. HTTP status
// errors are returned as is: a browser would see the same status.
func (f *AutoFetcher) Fetch(ctx context.Context, url string, opts Options) (Content, error) {
	content, err := f.static.Fetch(ctx, url, opts)
	if err != nil {
		if errors.Is(err, ErrStatus) || ctx.Err() != nil {
			return content, err
		}
		logger.Debug("static fetch failed, rendering", "url", url, "error", err)
		return f.dynamic.Fetch(ctx, url, opts)
	}

	if NeedsRendering(content.HTML) {
		logger.Debug("page needs rendering", "url", url)
		return f.dynamic.Fetch(ctx, url, opts)
	}
	return content, nil
}

// spaMarkers are empty mount points and attributes left by client-side
// frameworks in unrendered pages.
var spaMarkers = []string{
	`<div id="root"></div>`,
	`<div id="app"></div>`,
	`<app-root></app-root>`,
	`<div id="__next"></div>`,
	`<div id="__nuxt"></div>`,
	`ng-app`,
	`v-cloak`,
}

// rosterMarkers show that player markup is already in the static HTML.
var rosterMarkers = []string{
	"sidearm-roster-player",
	"s-person-card",
	"data-field=",
	"data-label=",
	"roster",
}

// NeedsRendering reports whether static HTML looks like a script shell whose
// roster is built client-side.
func NeedsRendering(html string) bool {
	lower := strings.ToLower(html)
	for _, m := range spaMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	if strings.Contains(lower, "<noscript>") {
		ns := between(lower, "<noscript>", "</noscript>")
		if strings.Contains(ns, "javascript") && !containsAny(lower, rosterMarkers) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i == -1 {
		return ""
	}
	i += len(start)
	j := strings.Index(s[i:], end)
	if j == -1 {
		return ""
	}
	return s[i : i+j]
}

// Close releases all fetcher resources.
func (f *AutoFetcher) Close() error {
	if f.dynamic != nil {
		return f.dynamic.Close()
	}
	return nil
}

// Type returns the fetcher type.
func (f *AutoFetcher) Type() string {
	return "auto"
}
