package template

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// sidearmFields maps the Sidearm list-item span classes to record fields.
var sidearmFields = []struct {
	selector string
	field    field
}{
	{".sidearm-roster-player-jersey-number", fieldJersey},
	{".sidearm-roster-player-jersey span", fieldJersey},
	{".sidearm-roster-player-position-long-short", fieldPosition},
	{".sidearm-roster-player-position", fieldPosition},
	{".sidearm-roster-player-height", fieldHeight},
	{".sidearm-roster-player-academic-year", fieldYear},
	{".sidearm-roster-player-major", fieldMajor},
	{".sidearm-roster-player-hometown", fieldHometown},
	{".sidearm-roster-player-highschool", fieldHighSchool},
	{".sidearm-roster-player-previous-school", fieldPrevious},
}

// ExtractSidearmList parses the Sidearm Sports list layout, one
// li.sidearm-roster-player per athlete.
func ExtractSidearmList(doc *goquery.Document, team roster.Team) []roster.Record {
	items := doc.Find("li.sidearm-roster-player, div.sidearm-roster-list-item")
	return collect(items, team, func(s *goquery.Selection, rec *roster.Record) {
		applyNameLink(s, rec, team,
			".sidearm-roster-player-name h3",
			".sidearm-roster-player-name",
			"h3",
			"h2",
		)
		for _, sf := range sidearmFields {
			if text := first(s, sf.selector); text != "" {
				set(rec, sf.field, text)
			}
		}
	})
}
