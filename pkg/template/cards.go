package template

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/soccer-rosters/pkg/fields"
	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// cardFields are the per-field class names used by simple card layouts.
var cardFields = []struct {
	selector string
	field    field
}{
	{".s-stamp__text", fieldJersey},
	{".number, .jersey, .jersey-number", fieldJersey},
	{".position", fieldPosition},
	{".height", fieldHeight},
	{".year, .class, .academic-year", fieldYear},
	{".major", fieldMajor},
	{".hometown", fieldHometown},
	{".highschool, .high-school", fieldHighSchool},
	{".previous-school, .last-school", fieldPrevious},
}

// ExtractCardLayout parses card grids: the Sidearm "s-person-card" layout,
// whose details are label/value items, and plainer player-card divs.
func ExtractCardLayout(doc *goquery.Document, team roster.Team) []roster.Record {
	return collect(doc.Find(cardSelector), team, func(s *goquery.Selection, rec *roster.Record) {
		applyNameLink(s, rec, team,
			".s-person-details__personal-single-line",
			".s-person-card__header h3",
			".name",
			"h3",
			"h2",
			"h4",
		)
		s.Find(".s-person-details__bio-stats-item, .s-person-card__content__person__location-item").Each(func(_ int, item *goquery.Selection) {
			label, value := labelledValue(item, ".sr-only, .s-person-details__bio-stats-item-label, .s-person-card__content__person__location-item-label")
			if f := classify(label); f != fieldNone && f != fieldName {
				set(rec, f, value)
			}
		})
		for _, cf := range cardFields {
			if text := first(s, cf.selector); text != "" {
				set(rec, cf.field, text)
			}
		}
	})
}

// ExtractSchemaBlock parses schema.org Person microdata blocks.
func ExtractSchemaBlock(doc *goquery.Document, team roster.Team) []roster.Record {
	return collect(doc.Find(schemaSelector), team, func(s *goquery.Selection, rec *roster.Record) {
		applyNameLink(s, rec, team, `[itemprop="name"]`)
		if rec.ProfileURL == "" {
			if u := s.Find(`[itemprop="url"]`).First(); u.Length() > 0 {
				href, ok := u.Attr("href")
				if !ok {
					href, _ = u.Attr("content")
				}
				rec.ProfileURL = team.ResolveURL(href)
			}
		}
		if rec.Name == "" {
			if given, family := itemprop(s, "givenName"), itemprop(s, "familyName"); given != "" || family != "" {
				rec.Name = strings.TrimSpace(given + " " + family)
			}
		}
		set(rec, fieldJersey, coalesce(itemprop(s, "jerseyNumber"), first(s, ".number, .jersey")))
		set(rec, fieldPosition, coalesce(itemprop(s, "roleName"), itemprop(s, "jobTitle"), first(s, ".position")))
		set(rec, fieldHeight, coalesce(itemprop(s, "height"), first(s, ".height")))
		set(rec, fieldYear, first(s, ".year, .class, .academic-year"))
		set(rec, fieldHometown, coalesce(itemprop(s, "homeLocation"), itemprop(s, "birthPlace")))
		for _, school := range itempropAll(s, "alumniOf") {
			if fields.IsInstitution(school) {
				set(rec, fieldPrevious, school)
			} else {
				set(rec, fieldHighSchool, school)
			}
		}
	})
}

// itemprop returns the first value of a microdata property inside s,
// preferring a content attribute over element text.
func itemprop(s *goquery.Selection, prop string) string {
	vals := itempropAll(s, prop)
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func itempropAll(s *goquery.Selection, prop string) []string {
	var out []string
	s.Find(`[itemprop="` + prop + `"]`).Each(func(_ int, p *goquery.Selection) {
		v, ok := p.Attr("content")
		if !ok || strings.TrimSpace(v) == "" {
			v = p.Text()
		}
		if v = fields.Normalize(v); v != "" {
			out = append(out, v)
		}
	})
	return out
}

// ExtractCustomList parses custom CMS roster lists. These carry few reliable
// class names, so per-field classes are tried first and the item's full text
// is scanned for whatever is still missing.
func ExtractCustomList(doc *goquery.Document, team roster.Team) []roster.Record {
	return collect(doc.Find(customListSelector), team, func(s *goquery.Selection, rec *roster.Record) {
		applyNameLink(s, rec, team,
			".roster-list__name",
			".roster-player__name",
			".name",
			`a[href*="roster"]`,
		)
		set(rec, fieldJersey, first(s, ".roster-list__number", ".roster-player__number", ".number"))
		set(rec, fieldPosition, first(s, ".roster-list__position", ".roster-player__position", ".position"))
		set(rec, fieldYear, first(s, ".roster-list__class", ".roster-player__class", ".class", ".year"))
		set(rec, fieldHometown, first(s, ".roster-list__hometown", ".roster-player__hometown", ".hometown"))
		set(rec, fieldHighSchool, first(s, ".roster-list__highschool", ".roster-player__highschool", ".highschool"))
		set(rec, fieldPrevious, first(s, ".roster-list__previous-school", ".roster-player__previous-school"))

		text := fields.Normalize(strings.Replace(s.Text(), rec.Name, " ", 1))
		setIfEmpty(&rec.Height, fields.ParseHeight(text))
		setIfEmpty(&rec.AcademicYear, fields.FindAcademicYear(text))
		if rec.Jersey == "" {
			rec.Jersey = itemJersey(fields.Normalize(s.Text()), fields.Normalize(rec.Name))
		}
	})
}

// itemJersey finds a jersey number in a list item's text. A bare number is
// only trusted before the name; elsewhere it needs a marker.
func itemJersey(text, name string) string {
	if i := strings.Index(text, name); name != "" && i > 0 {
		if j := fields.ParseJersey(text[:i]); j != "" {
			return j
		}
		text = text[:i] + " " + text[i+len(name):]
	}
	return fields.ParseMarkedJersey(text)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
