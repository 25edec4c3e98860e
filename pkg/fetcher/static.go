package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/soccer-rosters/internal/logger"
)

// StaticFetcher uses Colly for static HTML fetching.
type StaticFetcher struct {
	config Config
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg Config) *StaticFetcher {
	return &StaticFetcher{config: cfg.withDefaults()}
}

// Fetch retrieves page content using Colly. A non-2xx response yields a
// *StatusError.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	logger.Debug("static fetch starting", "url", targetURL)

	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	// A fresh collector per request keeps visited-URL state out of the way
	// of profile refetches across teams.
	c := colly.NewCollector(
		colly.UserAgent(coalesce(opts.UserAgent, f.config.UserAgent)),
		colly.StdlibContext(ctx),
	)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	c.SetRequestTimeout(timeout)

	if len(opts.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range opts.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.HTML = string(r.Body)
		result.URL = r.Request.URL.String()
		logger.Debug("static fetch response received",
			"status", r.StatusCode,
			"content_type", result.ContentType,
			"size", humanize.Bytes(uint64(len(r.Body))))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			result.StatusCode = r.StatusCode
			if r.StatusCode < 200 || r.StatusCode > 299 {
				fetchErr = &StatusError{URL: targetURL, Code: r.StatusCode}
				return
			}
		}
		fetchErr = fmt.Errorf("fetch error: %w", err)
	})

	if err := c.Visit(targetURL); err != nil && fetchErr == nil {
		logger.Debug("static fetch visit failed", "url", targetURL, "error", err)
		return result, fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		logger.Debug("static fetch error", "url", targetURL, "status", result.StatusCode, "error", fetchErr)
		return result, fetchErr
	}

	result.Title = pageTitle(result.HTML)
	logger.Debug("static fetch complete", "url", targetURL, "title", result.Title)
	return result, nil
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}

func pageTitle(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
