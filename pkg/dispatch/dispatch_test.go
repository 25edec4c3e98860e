package dispatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/soccer-rosters/pkg/fetcher"
	"github.com/jmylchreest/soccer-rosters/pkg/roster"
	"github.com/jmylchreest/soccer-rosters/pkg/template"
)

// fakeFetcher serves pages by exact URL; anything else is a 404.
type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, _ fetcher.Options) (fetcher.Content, error) {
	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	if !ok {
		return fetcher.Content{URL: url, StatusCode: 404}, &fetcher.StatusError{URL: url, Code: 404}
	}
	return fetcher.Content{URL: url, HTML: html, StatusCode: 200}, nil
}

const (
	baseURL    = "https://goheels.com/sports/mens-soccer"
	primaryURL = baseURL + "/roster/2025"
	altURL     = baseURL + "/roster/2025-26"
)

var unc = roster.Team{
	ID:       "457",
	Name:     "North Carolina",
	Season:   "2025",
	Division: "I",
	BaseURL:  baseURL,
}

func sidearmPage(n int) string {
	positions := []string{"Goalkeeper", "Defender", "Midfielder", "Forward"}
	years := []string{"Fr.", "So.", "Jr.", "Sr."}
	var b strings.Builder
	b.WriteString(`<html><head><title>2025 Men's Soccer Roster - North Carolina</title></head><body><ul>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<li class="sidearm-roster-player">
<span class="sidearm-roster-player-jersey-number">%d</span>
<div class="sidearm-roster-player-name"><h3><a href="/sports/mens-soccer/roster/player-%d/%d">Athlete Number%d</a></h3></div>
<span class="sidearm-roster-player-position-long-short">%s</span>
<span class="sidearm-roster-player-academic-year">%s</span>
<span class="sidearm-roster-player-hometown">Town %d, N.C.</span>
</li>`, i, i, 2000+i, i, positions[i%4], years[i%4], i)
	}
	b.WriteString(`</ul></body></html>`)
	return b.String()
}

const emptyPage = `<html><head><title>Page Not Found</title></head><body><p>Nothing here.</p></body></html>`

const namesOnlyPage = `<html><body><table id="roster-table">
<tr><th>Name</th></tr>
<tr><td>Ann Alpha</td></tr><tr><td>Bea Beta</td></tr><tr><td>Cat Gamma</td></tr>
</table></body></html>`

// fallbackPage carries Sidearm markers without names plus a complete table.
const fallbackPage = `<html><body>
<ul>
<li class="sidearm-roster-player"><span class="sidearm-roster-player-jersey-number">5</span></li>
<li class="sidearm-roster-player"><span class="sidearm-roster-player-jersey-number">6</span></li>
</ul>
<table>
<tr><th>No.</th><th>Name</th><th>Pos.</th><th>Cl.</th></tr>
<tr><td>10</td><td>Amy Ash</td><td>F</td><td>Jr.</td></tr>
<tr><td>11</td><td>Bo Birch</td><td>M</td><td>So.</td></tr>
<tr><td>12</td><td>Cy Cedar</td><td>D</td><td>Sr.</td></tr>
</table>
</body></html>`

const fieldTablePage = `<html><body><table>
<thead><tr><th data-field="jersey">#</th><th data-field="name">Name</th><th data-field="position">Pos</th><th data-field="year">Yr</th></tr></thead>
<tbody>
<tr><td>3</td><td><a href="/roster/ada-back">Ada Back</a></td><td>D</td><td>Fr.</td></tr>
<tr><td>8</td><td><a href="/roster/ben-mid">Ben Mid</a></td><td>M</td><td>Jr.</td></tr>
</tbody></table></body></html>`

const adaProfile = `<html><body><h1>Ada Back</h1><dl>
<dt>Hometown</dt><dd>Austin, Texas</dd>
<dt>High School</dt><dd>Westlake</dd>
<dt>Major</dt><dd>Biology</dd>
</dl></body></html>`

func TestDispatcher_Run_AcceptedFirstAttempt(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{primaryURL: sidearmPage(25)}}
	d := New(f, nil, nil, DefaultConfig())

	res := d.Run(context.Background(), unc, roster.Policy{})

	if !res.Accepted() {
		t.Fatalf("expected accepted outcome, got %s (%s)", res.Diagnostics.Outcome, res.Diagnostics.Error)
	}
	if len(res.Records) != 25 {
		t.Fatalf("expected 25 records, got %d", len(res.Records))
	}
	for i, r := range res.Records {
		if r.Name == "" {
			t.Errorf("record %d has no name", i)
		}
		if r.TeamID != "457" || r.Season != "2025" {
			t.Errorf("record %d missing team context: %+v", i, r)
		}
	}

	diag := res.Diagnostics
	if diag.Retried {
		t.Error("expected no retry")
	}
	if diag.Format != roster.FormatSidearmList || diag.Detected != roster.FormatSidearmList {
		t.Errorf("format = %q detected = %q", diag.Format, diag.Detected)
	}
	if diag.URL != primaryURL {
		t.Errorf("URL = %q, want %q", diag.URL, primaryURL)
	}
	if !diag.SeasonVerified {
		t.Error("expected season verified from page title")
	}
	if !diag.Coverage.Pass() || diag.Coverage.Records != 25 {
		t.Errorf("unexpected coverage %+v", diag.Coverage)
	}
	wantStates := []roster.State{
		roster.StateFetched, roster.StateDetected, roster.StateExtracted,
		roster.StateValidated, roster.StateAccepted,
	}
	if !reflect.DeepEqual(diag.States, wantStates) {
		t.Errorf("States = %v, want %v", diag.States, wantStates)
	}
	if want := "https://goheels.com/sports/mens-soccer/roster/player-1/2001"; res.Records[0].ProfileURL != want {
		t.Errorf("ProfileURL = %q, want %q", res.Records[0].ProfileURL, want)
	}
	if len(f.calls) != 1 {
		t.Errorf("expected a single fetch, got %v", f.calls)
	}
}

func TestDispatcher_Run_RetriesAlternateURL(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{altURL: sidearmPage(20)}}
	d := New(f, nil, nil, DefaultConfig())

	res := d.Run(context.Background(), unc, roster.Policy{})

	if !res.Accepted() {
		t.Fatalf("expected accepted after retry, got %s (%s)", res.Diagnostics.Outcome, res.Diagnostics.Error)
	}
	if !res.Diagnostics.Retried {
		t.Error("expected Retried")
	}
	if res.Diagnostics.URL != altURL {
		t.Errorf("URL = %q, want alternate %q", res.Diagnostics.URL, altURL)
	}
	if res.Diagnostics.Err != nil {
		t.Errorf("expected the first attempt's error to be cleared, got %v", res.Diagnostics.Err)
	}
	if !reflect.DeepEqual(f.calls, []string{primaryURL, altURL}) {
		t.Errorf("calls = %v", f.calls)
	}
	if res.Diagnostics.States[0] != roster.StateRetrying {
		t.Errorf("expected retrying first after a failed fetch, got %v", res.Diagnostics.States)
	}
}

func TestDispatcher_Run_FetchErrorBothAttempts(t *testing.T) {
	f := &fakeFetcher{}
	d := New(f, nil, nil, DefaultConfig())

	res := d.Run(context.Background(), unc, roster.Policy{})

	if res.Accepted() {
		t.Fatal("expected failed outcome")
	}
	if !errors.Is(res.Diagnostics.Err, fetcher.ErrStatus) {
		t.Errorf("expected the fetch error in diagnostics, got %v", res.Diagnostics.Err)
	}
	if res.Records == nil || len(res.Records) != 0 {
		t.Errorf("expected empty non-nil records, got %v", res.Records)
	}
	if len(f.calls) != 2 {
		t.Errorf("expected exactly one retry, got calls %v", f.calls)
	}
}

func TestDispatcher_Run_NoTemplateMatches(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{primaryURL: emptyPage, altURL: emptyPage}}
	d := New(f, nil, nil, DefaultConfig())

	res := d.Run(context.Background(), unc, roster.Policy{})

	diag := res.Diagnostics
	if diag.Outcome != roster.OutcomeFailed {
		t.Fatalf("Outcome = %q, want failed", diag.Outcome)
	}
	if diag.Detected != roster.FormatUnknown {
		t.Errorf("Detected = %q, want unknown", diag.Detected)
	}
	if last := diag.Tried[len(diag.Tried)-1]; last != roster.FormatGenericTable {
		t.Errorf("expected the generic table scan last, got %q", last)
	}
	if !errors.Is(diag.Err, ErrNoRecords) {
		t.Errorf("Err = %v, want ErrNoRecords", diag.Err)
	}
	if diag.Error == "" {
		t.Error("expected error text in diagnostics")
	}
	if len(res.Records) != 0 {
		t.Errorf("expected no records, got %d", len(res.Records))
	}
	if diag.States[len(diag.States)-1] != roster.StateFailed {
		t.Errorf("expected failed terminal state, got %v", diag.States)
	}
}

func TestDispatcher_Run_LowCoverageRejected(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{primaryURL: namesOnlyPage, altURL: namesOnlyPage}}
	d := New(f, nil, nil, DefaultConfig())

	res := d.Run(context.Background(), unc, roster.Policy{})

	if res.Accepted() {
		t.Fatal("expected records without jersey, position or class to be rejected")
	}
	if !res.Diagnostics.Retried {
		t.Error("expected a retry after validation failure")
	}
	if res.Diagnostics.Coverage.Records != 3 {
		t.Errorf("expected coverage of the 3 extracted records, got %+v", res.Diagnostics.Coverage)
	}
	if len(res.Records) != 0 {
		t.Errorf("expected partial records to be discarded, got %d", len(res.Records))
	}
}

func TestDispatcher_Run_FallsThroughChain(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{primaryURL: fallbackPage}}
	d := New(f, nil, nil, DefaultConfig())

	res := d.Run(context.Background(), unc, roster.Policy{})

	if !res.Accepted() {
		t.Fatalf("expected accepted, got %s (%s)", res.Diagnostics.Outcome, res.Diagnostics.Error)
	}
	if res.Diagnostics.Detected != roster.FormatSidearmList {
		t.Errorf("Detected = %q, want sidearm-list", res.Diagnostics.Detected)
	}
	if res.Diagnostics.Format != roster.FormatGenericTable {
		t.Errorf("Format = %q, want generic-table", res.Diagnostics.Format)
	}
	if res.Diagnostics.Tried[0] != roster.FormatSidearmList {
		t.Errorf("expected the detected template to be tried first, got %v", res.Diagnostics.Tried)
	}
	if len(res.Records) != 3 {
		t.Errorf("expected 3 records, got %d", len(res.Records))
	}
}

func TestDispatcher_Run_PolicyFormat(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{primaryURL: fallbackPage}}
	d := New(f, nil, nil, DefaultConfig())

	res := d.Run(context.Background(), unc, roster.Policy{Format: roster.FormatGenericTable})

	if !res.Accepted() {
		t.Fatalf("expected accepted, got %s", res.Diagnostics.Outcome)
	}
	if got := res.Diagnostics.Tried; len(got) != 1 || got[0] != roster.FormatGenericTable {
		t.Errorf("expected only the pinned format to run, got %v", got)
	}
}

func TestDispatcher_Run_RenderPolicyUsesRenderer(t *testing.T) {
	static := &fakeFetcher{}
	renderer := &fakeFetcher{pages: map[string]string{primaryURL: sidearmPage(10)}}
	d := New(static, renderer, nil, DefaultConfig())

	res := d.Run(context.Background(), unc, roster.Policy{Render: true})

	if !res.Accepted() {
		t.Fatalf("expected accepted, got %s (%s)", res.Diagnostics.Outcome, res.Diagnostics.Error)
	}
	if len(static.calls) != 0 {
		t.Errorf("expected no static fetches, got %v", static.calls)
	}
	if len(renderer.calls) != 1 {
		t.Errorf("expected one render, got %v", renderer.calls)
	}
}

func TestDispatcher_Run_URLQuirk(t *testing.T) {
	rangeURL := baseURL + "/2025-26/roster"
	f := &fakeFetcher{pages: map[string]string{rangeURL: sidearmPage(5)}}
	d := New(f, nil, nil, DefaultConfig())

	res := d.Run(context.Background(), unc, roster.Policy{URLQuirk: roster.QuirkRangePrefix})

	if !res.Accepted() || res.Diagnostics.Retried {
		t.Errorf("expected first-attempt acceptance, got %s retried=%v", res.Diagnostics.Outcome, res.Diagnostics.Retried)
	}
	if f.calls[0] != rangeURL {
		t.Errorf("first fetch = %q, want %q", f.calls[0], rangeURL)
	}
}

func TestDispatcher_Run_CancelledContextSkipsRetry(t *testing.T) {
	f := &fakeFetcher{}
	d := New(f, nil, nil, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := d.Run(ctx, unc, roster.Policy{})
	if res.Accepted() {
		t.Fatal("expected failure")
	}
	if len(f.calls) != 1 {
		t.Errorf("expected no retry after cancellation, got %v", f.calls)
	}
}

func TestDispatcher_Run_NoBaseURL(t *testing.T) {
	f := &fakeFetcher{}
	team := unc
	team.BaseURL = ""

	res := New(f, nil, nil, DefaultConfig()).Run(context.Background(), team, roster.Policy{})
	if res.Accepted() || res.Diagnostics.Err == nil {
		t.Error("expected a failed result with an error")
	}
	if len(f.calls) != 0 {
		t.Errorf("expected no fetches, got %v", f.calls)
	}
}

func TestDispatcher_Enrichment(t *testing.T) {
	team := unc
	team.BaseURL = "https://example.edu/sports/msoc"
	page := "https://example.edu/sports/msoc/roster/2025"
	f := &fakeFetcher{pages: map[string]string{
		page:                                 fieldTablePage,
		"https://example.edu/roster/ada-back": adaProfile,
	}}
	cfg := DefaultConfig()
	cfg.EnrichDelay = 0
	cfg.EnrichDomains = []string{"example.edu"}
	d := New(f, nil, nil, cfg)

	res := d.Run(context.Background(), team, roster.Policy{})

	if !res.Accepted() {
		t.Fatalf("expected accepted, got %s (%s)", res.Diagnostics.Outcome, res.Diagnostics.Error)
	}
	if res.Diagnostics.Format != roster.FormatFieldTable {
		t.Fatalf("Format = %q, want field-table", res.Diagnostics.Format)
	}
	if res.Diagnostics.Enriched != 1 {
		t.Errorf("Enriched = %d, want 1", res.Diagnostics.Enriched)
	}

	ada := res.Records[0]
	if ada.Hometown != "Austin, Texas" || ada.HighSchool != "Westlake" || ada.Major != "Biology" {
		t.Errorf("profile facts not merged: %+v", ada)
	}
	if ada.Position != "D" {
		t.Errorf("listing position overwritten: %q", ada.Position)
	}

	ben := res.Records[1]
	if ben.Name != "Ben Mid" || ben.Jersey != "8" || ben.Hometown != "" {
		t.Errorf("failed profile fetch should keep the listing record, got %+v", ben)
	}

	wantCalls := []string{page, "https://example.edu/roster/ada-back", "https://example.edu/roster/ben-mid"}
	if !reflect.DeepEqual(f.calls, wantCalls) {
		t.Errorf("calls = %v, want %v", f.calls, wantCalls)
	}
}

// noClassPage lists jersey, name and position only; class comes from profiles.
const noClassPage = `<html><body><table>
<thead><tr><th data-field="jersey">#</th><th data-field="name">Name</th><th data-field="position">Pos</th></tr></thead>
<tbody>
<tr><td>3</td><td><a href="/roster/ada-back">Ada Back</a></td><td>D</td></tr>
<tr><td>8</td><td><a href="/roster/ben-mid">Ben Mid</a></td><td>M</td></tr>
</tbody></table></body></html>`

const benProfile = `<html><body><h1>Ben Mid</h1><dl>
<dt>Class</dt><dd>Jr.</dd>
<dt>Hometown</dt><dd>Cary, N.C.</dd>
</dl></body></html>`

const adaClassProfile = `<html><body><h1>Ada Back</h1><dl>
<dt>Class</dt><dd>Fr.</dd>
<dt>Hometown</dt><dd>Austin, Texas</dd>
</dl></body></html>`

func TestDispatcher_Enrichment_FillsClassBeforeScoring(t *testing.T) {
	team := unc
	team.BaseURL = "https://example.edu/sports/msoc"
	page := "https://example.edu/sports/msoc/roster/2025"
	f := &fakeFetcher{pages: map[string]string{
		page:                                 noClassPage,
		"https://example.edu/roster/ada-back": adaClassProfile,
		"https://example.edu/roster/ben-mid":  benProfile,
	}}
	cfg := DefaultConfig()
	cfg.EnrichDelay = 0
	cfg.EnrichDomains = []string{"example.edu"}

	res := New(f, nil, nil, cfg).Run(context.Background(), team, roster.Policy{})

	if !res.Accepted() {
		t.Fatalf("expected accepted, got %s (%s) cov=%+v", res.Diagnostics.Outcome, res.Diagnostics.Error, res.Diagnostics.Coverage)
	}
	if res.Diagnostics.Format != roster.FormatFieldTable || res.Diagnostics.Retried {
		t.Errorf("Format = %q retried=%v, want field-table on the first attempt", res.Diagnostics.Format, res.Diagnostics.Retried)
	}
	if res.Diagnostics.Enriched != 2 {
		t.Errorf("Enriched = %d, want 2", res.Diagnostics.Enriched)
	}
	if res.Diagnostics.Coverage.AcademicYear != 1 {
		t.Errorf("class coverage = %v, want 1", res.Diagnostics.Coverage.AcademicYear)
	}
	if got := res.Records[1]; got.AcademicYear != "Junior" || got.Hometown != "Cary, N.C." {
		t.Errorf("profile facts not merged: %+v", got)
	}
}

func TestDispatcher_Enrichment_RenderPolicyUsesRenderer(t *testing.T) {
	team := unc
	team.BaseURL = "https://example.edu/sports/msoc"
	static := &fakeFetcher{}
	renderer := &fakeFetcher{pages: map[string]string{
		"https://example.edu/sports/msoc/roster/2025": noClassPage,
		"https://example.edu/roster/ada-back":         adaClassProfile,
		"https://example.edu/roster/ben-mid":          benProfile,
	}}
	cfg := DefaultConfig()
	cfg.EnrichDelay = 0
	cfg.EnrichDomains = []string{"example.edu"}

	res := New(static, renderer, nil, cfg).Run(context.Background(), team, roster.Policy{Render: true})

	if !res.Accepted() {
		t.Fatalf("expected accepted, got %s (%s)", res.Diagnostics.Outcome, res.Diagnostics.Error)
	}
	if len(static.calls) != 0 {
		t.Errorf("expected no static fetches, got %v", static.calls)
	}
	if len(renderer.calls) != 3 {
		t.Errorf("expected listing and both profiles rendered, got %v", renderer.calls)
	}
}

func TestDispatcher_Enrichment_PolicyDisables(t *testing.T) {
	team := unc
	team.BaseURL = "https://example.edu/sports/msoc"
	f := &fakeFetcher{pages: map[string]string{
		"https://example.edu/sports/msoc/roster/2025": fieldTablePage,
	}}
	cfg := DefaultConfig()
	cfg.EnrichDomains = []string{"example.edu"}
	off := false

	res := New(f, nil, nil, cfg).Run(context.Background(), team, roster.Policy{Enrich: &off})

	if !res.Accepted() {
		t.Fatalf("expected accepted, got %s", res.Diagnostics.Outcome)
	}
	if len(f.calls) != 1 {
		t.Errorf("expected no profile fetches, got %v", f.calls)
	}
}

func TestDispatcher_Enrichment_OtherDomainSkipped(t *testing.T) {
	team := unc
	team.BaseURL = "https://example.edu/sports/msoc"
	f := &fakeFetcher{pages: map[string]string{
		"https://example.edu/sports/msoc/roster/2025": fieldTablePage,
	}}
	cfg := DefaultConfig()
	cfg.EnrichDomains = []string{"another.edu"}

	New(f, nil, nil, cfg).Run(context.Background(), team, roster.Policy{})
	if len(f.calls) != 1 {
		t.Errorf("expected no profile fetches, got %v", f.calls)
	}
}

func TestDispatcher_ExtractDocument_NoRoster(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(emptyPage))
	if err != nil {
		t.Fatal(err)
	}

	res := New(&fakeFetcher{}, nil, nil, DefaultConfig()).ExtractDocument(context.Background(), doc, unc, roster.Policy{})

	if res.Diagnostics.Outcome != roster.OutcomeFailed {
		t.Errorf("Outcome = %q, want failed", res.Diagnostics.Outcome)
	}
	if res.Records == nil || len(res.Records) != 0 {
		t.Errorf("expected empty non-nil records, got %v", res.Records)
	}
	want := []roster.State{roster.StateDetected, roster.StateFailed}
	if !reflect.DeepEqual(res.Diagnostics.States, want) {
		t.Errorf("States = %v, want %v", res.Diagnostics.States, want)
	}
}

func TestDispatcher_ExtractorPanicIsolated(t *testing.T) {
	reg := template.NewRegistry(
		template.Entry{
			Format: roster.FormatCustomList,
			Detect: func(*goquery.Document) bool { return true },
			Extract: func(*goquery.Document, roster.Team) []roster.Record {
				panic("malformed page")
			},
		},
		template.Entry{Format: roster.FormatGenericTable, Extract: template.ExtractGenericTable},
	)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fallbackPage))
	if err != nil {
		t.Fatal(err)
	}

	res := New(&fakeFetcher{}, nil, reg, DefaultConfig()).ExtractDocument(context.Background(), doc, unc, roster.Policy{})

	if !res.Accepted() {
		t.Fatalf("expected the generic table to be accepted after a panicking template, got %s", res.Diagnostics.Outcome)
	}
	if res.Diagnostics.Format != roster.FormatGenericTable {
		t.Errorf("Format = %q", res.Diagnostics.Format)
	}
}
