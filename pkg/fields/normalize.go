// Package fields holds the text normalizer and the best-effort field parsers
// used by every roster template. All functions are pure and never fail: input
// that does not match any rule yields an empty value.
package fields

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// trailingNoise removes social-media and UI link text together with anything
// following it, e.g. "Jane Doe Full Bio" or "Austin, TX Instagram @jane".
var trailingNoise = regexp.MustCompile(`(?i)\s*\b(?:view full bio|full bio|view bio|instagram|twitter|facebook|opens in a new window)\b.*$`)

// leadingLabel matches one field label at the start of a cell.
var leadingLabel = regexp.MustCompile(`(?i)^(?:hometown\s*/\s*high school|hometown\s*/\s*previous school|hometown|high school|previous college|previous school|last school|academic year|class|cl\.?|yr\.?|year|height|ht\.?|position|pos\.?|major|number|no\.?)\s*:\s*`)

// Normalize collapses whitespace runs, trims both ends, drops trailing UI
// noise and strips leading field labels. Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := collapse(norm.NFC.String(raw))
	s = strings.TrimSpace(trailingNoise.ReplaceAllString(s, ""))
	return StripLabels(s)
}

// StripLabels removes any number of leading "Label:" prefixes.
func StripLabels(s string) string {
	for {
		loc := leadingLabel.FindStringIndex(s)
		if loc == nil || loc[1] == 0 {
			return strings.TrimSpace(s)
		}
		s = strings.TrimSpace(s[loc[1]:])
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
