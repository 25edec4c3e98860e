// Package template detects which roster site template a parsed page uses and
// extracts player records from it. Each template family is an independent
// pair of functions registered in a priority-ordered table.
package template

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// DetectFunc reports whether a document carries a template's markers.
type DetectFunc func(doc *goquery.Document) bool

// ExtractFunc walks a template's DOM shape and returns the records found. It
// returns an empty slice when the template's containers are absent.
type ExtractFunc func(doc *goquery.Document, team roster.Team) []roster.Record

// Entry is one registered template family.
type Entry struct {
	Format  roster.Format
	Detect  DetectFunc // nil for fallback-only templates
	Extract ExtractFunc
	// Enrich marks templates whose listing pages omit hometown, school and
	// class, so profile pages are worth fetching.
	Enrich bool
}

// Registry holds template entries in detection priority order.
type Registry struct {
	entries []Entry
	byFmt   map[roster.Format]int
}

// NewRegistry creates a registry; entries are checked in the order given.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{byFmt: make(map[roster.Format]int, len(entries))}
	for _, e := range entries {
		r.Register(e)
	}
	return r
}

// Register appends an entry, replacing any entry with the same format.
func (r *Registry) Register(e Entry) {
	if i, ok := r.byFmt[e.Format]; ok {
		r.entries[i] = e
		return
	}
	r.byFmt[e.Format] = len(r.entries)
	r.entries = append(r.entries, e)
}

// Default returns the registry of every built-in template. The Sidearm list
// comes first: it covers most sites and its marker is unambiguous, so
// detection stops as soon as it is seen.
func Default() *Registry {
	return NewRegistry(
		Entry{Format: roster.FormatSidearmList, Detect: detectSidearmList, Extract: ExtractSidearmList},
		Entry{Format: roster.FormatFieldTable, Detect: detectFieldTable, Extract: ExtractFieldTable, Enrich: true},
		Entry{Format: roster.FormatResultsTable, Detect: detectResultsTable, Extract: ExtractResultsTable},
		Entry{Format: roster.FormatContainerTable, Detect: detectContainerTable, Extract: ExtractContainerTable},
		Entry{Format: roster.FormatDataLabelTable, Detect: detectDataLabelTable, Extract: ExtractDataLabelTable},
		Entry{Format: roster.FormatCardLayout, Detect: detectCardLayout, Extract: ExtractCardLayout},
		Entry{Format: roster.FormatSchemaBlock, Detect: detectSchemaBlock, Extract: ExtractSchemaBlock},
		Entry{Format: roster.FormatCustomList, Detect: detectCustomList, Extract: ExtractCustomList},
		Entry{Format: roster.FormatGenericTable, Extract: ExtractGenericTable},
	)
}

// Entries returns the registered entries in priority order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup returns the entry registered for f.
func (r *Registry) Lookup(f roster.Format) (Entry, bool) {
	i, ok := r.byFmt[f]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Detect returns the first format whose markers are present, or
// FormatUnknown. Unknown is not an error: it selects the table scan.
func (r *Registry) Detect(doc *goquery.Document) roster.Format {
	if doc == nil {
		return roster.FormatUnknown
	}
	for _, e := range r.entries {
		if e.Detect != nil && e.Detect(doc) {
			return e.Format
		}
	}
	return roster.FormatUnknown
}

// Chain returns the extraction order for a page: the preferred format first,
// then every other format whose markers are present, then the remaining
// templates, with the generic table scan last.
func (r *Registry) Chain(doc *goquery.Document, preferred roster.Format) []Entry {
	var chain []Entry
	seen := make(map[roster.Format]bool, len(r.entries))
	add := func(e Entry) {
		if !seen[e.Format] {
			seen[e.Format] = true
			chain = append(chain, e)
		}
	}

	if e, ok := r.Lookup(preferred); ok {
		add(e)
	}
	for _, e := range r.entries {
		if e.Detect != nil && doc != nil && e.Detect(doc) {
			add(e)
		}
	}
	for _, e := range r.entries {
		if e.Detect != nil {
			add(e)
		}
	}
	for _, e := range r.entries {
		add(e)
	}
	return chain
}
