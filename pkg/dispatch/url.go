package dispatch

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// SeasonYear returns the starting year of a season token: "2025-26" and
// "2025" both yield "2025". Tokens that do not start with a year are
// returned unchanged.
func SeasonYear(season string) string {
	season = strings.TrimSpace(season)
	if len(season) >= 4 && isDigits(season[:4]) && (len(season) == 4 || season[4] == '-') {
		return season[:4]
	}
	return season
}

// SeasonRange returns the academic-year form of a season: "2025" becomes
// "2025-26". Other tokens are returned unchanged.
func SeasonRange(season string) string {
	year := SeasonYear(season)
	if len(year) != 4 || !isDigits(year) {
		return season
	}
	n, _ := strconv.Atoi(year)
	return fmt.Sprintf("%d-%02d", n, (n+1)%100)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DetectQuirk picks a URL rule from the shape of a team's base URL. Base URLs
// pointing at a sport index page use the index rule; everything else uses the
// default.
func DetectQuirk(baseURL string) roster.URLQuirk {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return roster.QuirkDefault
	}
	p := strings.TrimRight(u.Path, "/")
	if strings.HasSuffix(p, "/index") || strings.HasSuffix(p, "/index.html") {
		return roster.QuirkIndex
	}
	return roster.QuirkDefault
}

// BuildRosterURL constructs the roster page URL for a team and season from
// the policy's URL quirk. A custom path segment replaces "roster".
func BuildRosterURL(baseURL, season string, p roster.Policy) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return ""
	}
	quirk := p.URLQuirk
	if quirk == roster.QuirkAuto {
		quirk = DetectQuirk(base)
	}
	return buildURL(base, season, quirk, segment(p))
}

// AlternateRosterURL returns the URL tried on the single retry: a bare-year
// URL becomes a season-range URL and the other way around. It returns "" when
// no different construction exists.
func AlternateRosterURL(baseURL, season string, p roster.Policy) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" || strings.TrimSpace(season) == "" {
		return ""
	}
	quirk := p.URLQuirk
	if quirk == roster.QuirkAuto {
		quirk = DetectQuirk(base)
	}

	var alt string
	switch quirk {
	case roster.QuirkSeasonRange, roster.QuirkRangePrefix:
		alt = buildURL(base, season, roster.QuirkDefault, segment(p))
	case roster.QuirkIndex:
		alt = buildURL(trimIndex(base), season, roster.QuirkDefault, segment(p))
	default:
		alt = buildURL(base, season, roster.QuirkSeasonRange, segment(p))
	}
	if alt == buildURL(base, season, quirk, segment(p)) {
		return ""
	}
	return alt
}

func segment(p roster.Policy) string {
	if s := strings.Trim(strings.TrimSpace(p.PathSegment), "/"); s != "" {
		return s
	}
	return "roster"
}

func trimIndex(base string) string {
	base = strings.TrimSuffix(base, ".html")
	return strings.TrimSuffix(base, "/index")
}

func buildURL(base, season string, quirk roster.URLQuirk, seg string) string {
	season = strings.TrimSpace(season)
	if season == "" {
		if quirk == roster.QuirkIndex {
			base = trimIndex(base)
		}
		return base + "/" + seg
	}

	switch quirk {
	case roster.QuirkPlain:
		return base + "/" + seg
	case roster.QuirkSeasonRange:
		return base + "/" + seg + "/" + SeasonRange(season)
	case roster.QuirkRangePrefix:
		return base + "/" + SeasonRange(season) + "/" + seg
	case roster.QuirkIndex:
		return trimIndex(base) + "/" + SeasonRange(season) + "/" + seg
	case roster.QuirkQuery:
		return base + "/" + seg + "?season=" + url.QueryEscape(season)
	default:
		return base + "/" + seg + "/" + SeasonYear(season)
	}
}
