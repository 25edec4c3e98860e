// Package dispatch turns a team's roster page into validated player records.
// It fetches the page, detects its template, walks the template fallback
// chain, scores the result and retries once with an alternate roster URL.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/soccer-rosters/internal/logger"
	"github.com/jmylchreest/soccer-rosters/pkg/fetcher"
	"github.com/jmylchreest/soccer-rosters/pkg/roster"
	"github.com/jmylchreest/soccer-rosters/pkg/template"
)

// ErrNoRecords is reported when no template produced an acceptable record
// set for a team.
var ErrNoRecords = errors.New("no acceptable roster records")

// Fetcher retrieves a page. Both the static fetcher and the JS renderer
// satisfy it.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts fetcher.Options) (fetcher.Content, error)
}

// Config holds dispatcher settings.
type Config struct {
	FetchOptions fetcher.Options
	// EnrichDomains lists profile hosts whose listing pages lack hometown,
	// school and class, so profiles are fetched for them.
	EnrichDomains []string
	EnrichDelay   time.Duration // wait between profile fetches
}

// DefaultConfig returns dispatcher defaults.
func DefaultConfig() Config {
	return Config{
		EnrichDelay: 500 * time.Millisecond,
	}
}

// Diagnostics describes how a team's records were obtained.
type Diagnostics struct {
	Format         roster.Format   `json:"format" yaml:"format"`
	Detected       roster.Format   `json:"detected" yaml:"detected"`
	Tried          []roster.Format `json:"tried,omitempty" yaml:"tried,omitempty"`
	Outcome        roster.Outcome  `json:"outcome" yaml:"outcome"`
	Retried        bool            `json:"retried" yaml:"retried"`
	URL            string          `json:"url" yaml:"url"`
	States         []roster.State  `json:"states" yaml:"states"`
	Coverage       Coverage        `json:"coverage" yaml:"coverage"`
	SeasonVerified bool            `json:"season_verified" yaml:"season_verified"`
	Enriched       int             `json:"enriched,omitempty" yaml:"enriched,omitempty"`
	Err            error           `json:"-" yaml:"-"`
	Error          string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result is the outcome of one team's extraction. Records is empty, never
// nil, when the outcome is failed.
type Result struct {
	Team        roster.Team     `json:"team" yaml:"team"`
	Records     []roster.Record `json:"records" yaml:"records"`
	Diagnostics Diagnostics     `json:"diagnostics" yaml:"diagnostics"`
}

// Accepted reports whether the records passed validation.
func (r Result) Accepted() bool {
	return r.Diagnostics.Outcome == roster.OutcomeAccepted
}

// Dispatcher runs the fetch, detect, extract and validate cycle for one team
// at a time. It holds no per-team state and may be reused across teams.
type Dispatcher struct {
	fetcher  Fetcher
	renderer Fetcher
	registry *template.Registry
	enricher *Enricher
	// rendered fetches profiles for teams whose policy requires rendering.
	rendered *Enricher
	config   Config
}

// New creates a Dispatcher. renderer serves teams whose policy requires
// script rendering; when nil the page fetcher is used. A nil registry means
// template.Default().
func New(f Fetcher, renderer Fetcher, reg *template.Registry, cfg Config) *Dispatcher {
	if renderer == nil {
		renderer = f
	}
	if reg == nil {
		reg = template.Default()
	}
	return &Dispatcher{
		fetcher:  f,
		renderer: renderer,
		registry: reg,
		enricher: NewEnricher(f, cfg.EnrichDelay, cfg.FetchOptions),
		rendered: NewEnricher(renderer, cfg.EnrichDelay, cfg.FetchOptions),
		config:   cfg,
	}
}

// Run extracts a team's roster. If the first roster URL does not yield an
// acceptable record set, one alternate URL construction is tried. Run never
// returns an error: failures are reported in the result's diagnostics.
func (d *Dispatcher) Run(ctx context.Context, team roster.Team, policy roster.Policy) Result {
	res := Result{Team: team}
	diag := &res.Diagnostics

	primary := BuildRosterURL(team.BaseURL, team.Season, policy)
	if primary == "" {
		diag.Err = fmt.Errorf("team %s has no base URL", team.ID)
		return d.finish(res, nil, false)
	}

	records, ok := d.attempt(ctx, primary, team, policy, diag)
	if !ok && ctx.Err() == nil {
		if alt := AlternateRosterURL(team.BaseURL, team.Season, policy); alt != "" {
			diag.States = append(diag.States, roster.StateRetrying)
			diag.Retried = true
			logger.Info("retrying with alternate roster URL", "team", team.Name, "url", alt)
			records, ok = d.attempt(ctx, alt, team, policy, diag)
		}
	}
	return d.finish(res, records, ok)
}

// ExtractDocument runs detection, the fallback chain and validation on an
// already parsed page. No retry is possible without a URL.
func (d *Dispatcher) ExtractDocument(ctx context.Context, doc *goquery.Document, team roster.Team, policy roster.Policy) Result {
	res := Result{Team: team}
	res.Diagnostics.URL = team.BaseURL
	records, ok := d.extract(ctx, doc, team, policy, &res.Diagnostics)
	return d.finish(res, records, ok)
}

func (d *Dispatcher) attempt(ctx context.Context, pageURL string, team roster.Team, policy roster.Policy, diag *Diagnostics) ([]roster.Record, bool) {
	diag.URL = pageURL
	diag.Err = nil
	f := d.fetcher
	if policy.Render {
		f = d.renderer
	}

	content, err := f.Fetch(ctx, pageURL, d.config.FetchOptions)
	if err != nil {
		diag.Err = err
		logger.Info("roster fetch failed", "team", team.Name, "url", pageURL, "error", err)
		return nil, false
	}
	diag.States = append(diag.States, roster.StateFetched)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.HTML))
	if err != nil {
		diag.Err = fmt.Errorf("failed to parse roster page: %w", err)
		return nil, false
	}

	// Profile links are relative to the page actually served.
	pageTeam := team
	if content.URL != "" {
		pageTeam.BaseURL = content.URL
	} else {
		pageTeam.BaseURL = pageURL
	}
	return d.extract(ctx, doc, pageTeam, policy, diag)
}

func (d *Dispatcher) extract(ctx context.Context, doc *goquery.Document, team roster.Team, policy roster.Policy, diag *Diagnostics) ([]roster.Record, bool) {
	detected := d.registry.Detect(doc)
	diag.Detected = detected
	diag.Format = ""
	diag.Tried = nil
	diag.SeasonVerified = VerifySeason(doc, team.Season)
	diag.States = append(diag.States, roster.StateDetected)

	preferred := detected
	if policy.HasFormat() {
		preferred = policy.Format
	}
	logger.Debug("template detected", "team", team.Name, "detected", detected, "preferred", preferred)
	if !diag.SeasonVerified {
		logger.Debug("season not found in page headers", "team", team.Name, "season", team.Season)
	}

	scored := false
	enriched := false
	diag.Enriched = 0
	for _, e := range d.registry.Chain(doc, preferred) {
		diag.Tried = append(diag.Tried, e.Format)
		records := safeExtract(e, doc, team)
		if len(records) == 0 {
			logger.Debug("template yielded no records", "team", team.Name, "format", e.Format)
			continue
		}
		if !scored {
			diag.States = append(diag.States, roster.StateExtracted, roster.StateValidated)
			scored = true
		}

		// Profiles fill listing gaps before scoring. At most one template's
		// records are enriched per page.
		merged := 0
		if !enriched && d.shouldEnrich(e, policy, records) {
			enriched = true
			merged = d.enricherFor(policy).Enrich(ctx, records)
		}

		cov := Measure(records)
		diag.Coverage = cov
		if !cov.Pass() {
			logger.Debug("coverage below threshold",
				"team", team.Name,
				"format", e.Format,
				"records", cov.Records,
				"jersey", cov.Jersey,
				"position", cov.Position,
				"class", cov.AcademicYear)
			continue
		}

		diag.Format = e.Format
		diag.Enriched = merged
		return records, true
	}

	logger.Info("no template produced acceptable records", "team", team.Name, "detected", detected, "tried", len(diag.Tried))
	return nil, false
}

// safeExtract runs one extractor, treating a panic as an empty result.
func safeExtract(e template.Entry, doc *goquery.Document, team roster.Team) (records []roster.Record) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("template extractor panicked", "format", e.Format, "team", team.Name, "panic", r)
			records = nil
		}
	}()
	return e.Extract(doc, team)
}

func (d *Dispatcher) shouldEnrich(e template.Entry, policy roster.Policy, records []roster.Record) bool {
	if policy.Enrich != nil {
		return *policy.Enrich
	}
	return e.Enrich && matchesDomain(records, d.config.EnrichDomains)
}

func (d *Dispatcher) enricherFor(policy roster.Policy) *Enricher {
	if policy.Render {
		return d.rendered
	}
	return d.enricher
}

func (d *Dispatcher) finish(res Result, records []roster.Record, ok bool) Result {
	diag := &res.Diagnostics
	if ok {
		res.Records = records
		diag.Outcome = roster.OutcomeAccepted
		diag.States = append(diag.States, roster.StateAccepted)
		diag.Err = nil
		diag.Error = ""
		return res
	}

	res.Records = []roster.Record{}
	diag.Outcome = roster.OutcomeFailed
	diag.Format = ""
	diag.States = append(diag.States, roster.StateFailed)
	if diag.Err == nil {
		diag.Err = ErrNoRecords
	}
	diag.Error = diag.Err.Error()
	return res
}
