package dispatch

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/soccer-rosters/internal/logger"
	"github.com/jmylchreest/soccer-rosters/pkg/fetcher"
	"github.com/jmylchreest/soccer-rosters/pkg/roster"
	"github.com/jmylchreest/soccer-rosters/pkg/template"
)

// Enricher fetches player profile pages one at a time and merges the
// labelled facts found there into the listing records.
type Enricher struct {
	fetcher Fetcher
	delay   time.Duration
	opts    fetcher.Options
}

// NewEnricher creates an enricher that waits delay between profile fetches.
func NewEnricher(f Fetcher, delay time.Duration, opts fetcher.Options) *Enricher {
	return &Enricher{fetcher: f, delay: delay, opts: opts}
}

// Enrich updates records in place and returns how many gained at least one
// field. A failed profile fetch leaves that record as it was. Enrichment
// stops early when ctx is cancelled.
func (e *Enricher) Enrich(ctx context.Context, records []roster.Record) int {
	if e == nil || e.fetcher == nil {
		return 0
	}
	enriched := 0
	fetched := 0
	for i := range records {
		rec := &records[i]
		if rec.ProfileURL == "" {
			continue
		}
		if fetched > 0 && !sleep(ctx, e.delay) {
			break
		}
		if ctx.Err() != nil {
			break
		}
		fetched++

		content, err := e.fetcher.Fetch(ctx, rec.ProfileURL, e.opts)
		if err != nil {
			logger.Warn("profile fetch failed", "player", rec.Name, "url", rec.ProfileURL, "error", err)
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.HTML))
		if err != nil {
			logger.Warn("profile parse failed", "player", rec.Name, "error", err)
			continue
		}
		if n := template.MergeProfile(doc, rec); n > 0 {
			enriched++
			logger.Debug("profile merged", "player", rec.Name, "fields", n)
		}
	}
	return enriched
}

// sleep waits for d or until ctx is done, reporting whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// matchesDomain reports whether any record links to a profile on one of
// domains. A domain matches its subdomains too.
func matchesDomain(records []roster.Record, domains []string) bool {
	if len(domains) == 0 {
		return false
	}
	for _, r := range records {
		u, err := url.Parse(r.ProfileURL)
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.ToLower(u.Hostname())
		for _, d := range domains {
			d = strings.ToLower(strings.TrimSpace(d))
			if d != "" && (host == d || strings.HasSuffix(host, "."+d)) {
				return true
			}
		}
	}
	return false
}
