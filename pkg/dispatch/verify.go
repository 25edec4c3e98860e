package dispatch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// VerifySeason reports whether a page header or title names the season and
// the word "roster". Both the bare year and the range form ("2025-26") are
// accepted. An empty season verifies trivially.
func VerifySeason(doc *goquery.Document, season string) bool {
	season = strings.TrimSpace(season)
	if season == "" {
		return true
	}
	if doc == nil {
		return false
	}
	tokens := []string{season, SeasonRange(season)}

	found := false
	doc.Find("h1, h2, title").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if !strings.Contains(strings.ToLower(text), "roster") {
			return true
		}
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}
