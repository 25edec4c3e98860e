package template

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// MergeProfile copies labelled facts from a player's profile page into rec.
// Fields rec already carries are kept. It returns the number of fields
// filled.
func MergeProfile(doc *goquery.Document, rec *roster.Record) int {
	if doc == nil || rec == nil {
		return 0
	}
	before := filled(*rec)
	for _, p := range profilePairs(doc) {
		if f := classify(p.label); f != fieldNone && f != fieldName {
			set(rec, f, p.value)
		}
	}
	return filled(*rec) - before
}

type pair struct {
	label string
	value string
}

// profilePairs collects label/value pairs from the structures profile pages
// use: definition lists, two-cell table rows, label/value bio items and
// "Label: value" text.
func profilePairs(doc *goquery.Document) []pair {
	var pairs []pair
	add := func(label, value string) {
		label = strings.TrimSuffix(strings.TrimSpace(strings.Join(strings.Fields(label), " ")), ":")
		value = strings.TrimSpace(value)
		if label != "" && value != "" {
			pairs = append(pairs, pair{label: label, value: value})
		}
	}

	doc.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		if dd := dt.NextFiltered("dd"); dd.Length() > 0 {
			add(dt.Text(), dd.Text())
		}
	})

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Children().Filter("th, td")
		if cells.Length() == 2 {
			add(cells.Eq(0).Text(), cells.Eq(1).Text())
		}
	})

	doc.Find(".s-person-details__bio-stats-item, .sidearm-roster-player-fields li").Each(func(_ int, item *goquery.Selection) {
		label, value := labelledValue(item, ".sr-only, dt, span:first-child")
		add(label, value)
	})

	doc.Find("li, p, span, div").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 2 {
			return
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		i := strings.Index(text, ":")
		if i <= 0 || i > 30 || len(text) > 120 {
			return
		}
		add(text[:i], text[i+1:])
	})
	return pairs
}

func filled(r roster.Record) int {
	n := 0
	for _, v := range []string{r.Jersey, r.Position, r.Height, r.AcademicYear, r.Major, r.Hometown, r.HighSchool, r.PreviousSchool} {
		if v != "" {
			n++
		}
	}
	return n
}
