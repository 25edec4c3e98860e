package template

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/soccer-rosters/internal/logger"
	"github.com/jmylchreest/soccer-rosters/pkg/fields"
	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// entryFunc parses one container element into a record.
type entryFunc func(s *goquery.Selection, rec *roster.Record)

// collect runs fn over every element in sel. A panic while parsing one entry
// skips that entry only. Records without a name and exact repeats (pages that
// render desktop and mobile copies of the roster) are dropped.
func collect(sel *goquery.Selection, team roster.Team, fn entryFunc) []roster.Record {
	records := make([]roster.Record, 0, sel.Length())
	seen := make(map[string]bool, sel.Length())

	sel.Each(func(i int, s *goquery.Selection) {
		rec, ok := parseEntry(s, team, fn)
		if !ok {
			return
		}
		key := strings.ToLower(rec.Name) + "|" + rec.Jersey
		if seen[key] {
			return
		}
		seen[key] = true
		records = append(records, rec)
	})
	return records
}

func parseEntry(s *goquery.Selection, team roster.Team, fn entryFunc) (rec roster.Record, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("skipping malformed roster entry", "team", team.Name, "panic", r)
			ok = false
		}
	}()

	rec = team.Stamp()
	fn(s, &rec)
	rec.Name = fields.Normalize(rec.Name)
	return rec, rec.Name != ""
}

// nameLink finds a player's name inside s. Anchors are preferred over bare
// text because they also carry the profile URL.
func nameLink(s *goquery.Selection, team roster.Team) (name, profile string) {
	s.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := fields.Normalize(a.Text())
		if text == "" {
			if label, ok := a.Attr("aria-label"); ok {
				text = fields.Normalize(label)
			}
		}
		if text == "" || !looksLikeName(text) {
			return true
		}
		href, _ := a.Attr("href")
		name, profile = text, team.ResolveURL(href)
		return false
	})
	if name == "" && s.Is("a[href]") {
		href, _ := s.Attr("href")
		name, profile = fields.Normalize(s.Text()), team.ResolveURL(href)
	}
	if name == "" {
		name = fields.Normalize(s.Text())
	}
	return name, profile
}

// looksLikeName filters out anchors that are obviously not a player name,
// such as "Full Bio" links or bare jersey numbers.
func looksLikeName(text string) bool {
	if fields.ParseJersey(text) != "" && len(text) <= 3 {
		return false
	}
	for _, r := range text {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r > 127 {
			return true
		}
	}
	return false
}

// first returns the trimmed text of the first match for any selector.
func first(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if m := s.Find(sel).First(); m.Length() > 0 {
			if text := strings.TrimSpace(m.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// applyNameLink fills name and profile URL from the first selector that
// yields a name.
func applyNameLink(s *goquery.Selection, rec *roster.Record, team roster.Team, selectors ...string) {
	for _, sel := range selectors {
		m := s.Find(sel).First()
		if m.Length() == 0 {
			continue
		}
		name, profile := nameLink(m, team)
		if name != "" {
			setIfEmpty(&rec.Name, name)
			setIfEmpty(&rec.ProfileURL, profile)
			return
		}
	}
}

// labelledValue splits an element holding "Label value" into its label
// (taken from labelSel) and the remaining text.
func labelledValue(s *goquery.Selection, labelSel string) (label, value string) {
	full := fields.Normalize(s.Text())
	l := s.Find(labelSel).First()
	if l.Length() == 0 {
		if i := strings.Index(full, ":"); i > 0 {
			return strings.TrimSpace(full[:i]), strings.TrimSpace(full[i+1:])
		}
		return "", full
	}
	raw := strings.Join(strings.Fields(s.Text()), " ")
	label = strings.Join(strings.Fields(l.Text()), " ")
	value = strings.TrimSpace(strings.Replace(raw, label, "", 1))
	return strings.TrimSpace(strings.TrimSuffix(label, ":")), value
}
