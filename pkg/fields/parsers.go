package fields

import (
	"regexp"
	"strings"
)

var jerseyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*#?(\d{1,2})\s*$`),
	regexp.MustCompile(`Jersey Number[:\s]+(\d{1,2})\b`),
	regexp.MustCompile(`#(\d{1,2})\b`),
	regexp.MustCompile(`\bNo\.?[:\s]*(\d{1,2})\b`),
	regexp.MustCompile(`\b(\d{1,2})\s+[A-Z]`),
}

// markedJersey is the subset of jerseyPatterns that needs a "#", "No." or
// "Jersey Number" marker.
var markedJersey = jerseyPatterns[1:4]

// ParseJersey extracts a one or two digit jersey number.
func ParseJersey(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range jerseyPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// ParseMarkedJersey extracts a jersey number only when it carries a "#",
// "No." or "Jersey Number" marker. Use it on free text where bare numbers
// may be heights or weights.
func ParseMarkedJersey(text string) string {
	for _, re := range markedJersey {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

var heightPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s*['′]\s*\d+\s*(?:"|″|'')(?:\s*/\s*\d+\.\d+\s*m\b)?`),
	regexp.MustCompile(`\b\d-\d{1,2}\b`),
	regexp.MustCompile(`\b\d\.\d{1,2}\s?m\b`),
}

var heightLabel = regexp.MustCompile(`(?i)Height:\s*([^,\n]+)`)

// ParseHeight returns the first height found, verbatim. Imperial (6'2", 6-2),
// metric (1.88m) and combined (6'2" / 1.88m) forms are recognised.
func ParseHeight(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range heightPatterns {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	if m := heightLabel.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

var positionAbbrev = regexp.MustCompile(`(?i)\b(GK|MF|DF|FW|DEF|MID|FOR|D|M|F)\b`)

var positionSynonyms = map[string]string{
	"GK":  "GK",
	"D":   "D",
	"DF":  "D",
	"DEF": "D",
	"M":   "M",
	"MF":  "M",
	"MID": "M",
	"F":   "F",
	"FW":  "F",
	"FOR": "F",
}

var positionWords = []struct {
	words []string
	code  string
}{
	{[]string{"GOALKEEPER", "GOALIE"}, "GK"},
	{[]string{"DEFENDER", "DEFENCE", "DEFENSE"}, "D"},
	{[]string{"MIDFIELDER", "MIDFIELD"}, "M"},
	{[]string{"FORWARD", "STRIKER"}, "F"},
}

// ParsePosition maps a position cell to one of GK, D, M or F. For combined
// positions such as "D/M" the first one wins.
func ParsePosition(text string) string {
	if text == "" {
		return ""
	}
	if m := positionAbbrev.FindStringSubmatch(text); m != nil {
		return positionSynonyms[strings.ToUpper(m[1])]
	}
	upper := strings.ToUpper(text)
	for _, pw := range positionWords {
		for _, w := range pw.words {
			if strings.Contains(upper, w) {
				return pw.code
			}
		}
	}
	return ""
}

var academicYears = map[string]string{
	"fr": "Freshman", "fr.": "Freshman", "1st": "Freshman", "first": "Freshman",
	"so": "Sophomore", "so.": "Sophomore", "2nd": "Sophomore", "second": "Sophomore",
	"jr": "Junior", "jr.": "Junior", "3rd": "Junior", "third": "Junior",
	"sr": "Senior", "sr.": "Senior", "4th": "Senior", "fourth": "Senior",
	"gr": "Graduate", "gr.": "Graduate", "grad": "Graduate", "grad.": "Graduate",
	"r-fr": "Redshirt Freshman", "r-fr.": "Redshirt Freshman", "rs-fr": "Redshirt Freshman", "rs-fr.": "Redshirt Freshman",
	"r-so": "Redshirt Sophomore", "r-so.": "Redshirt Sophomore", "rs-so": "Redshirt Sophomore", "rs-so.": "Redshirt Sophomore",
	"r-jr": "Redshirt Junior", "r-jr.": "Redshirt Junior", "rs-jr": "Redshirt Junior", "rs-jr.": "Redshirt Junior",
	"r-sr": "Redshirt Senior", "r-sr.": "Redshirt Senior", "rs-sr": "Redshirt Senior", "rs-sr.": "Redshirt Senior",
}

// NormalizeAcademicYear expands class abbreviations ("Jr.", "R-So", "3rd") to
// their full names. Unrecognised values are returned unchanged.
func NormalizeAcademicYear(text string) string {
	if full, ok := academicYears[strings.ToLower(strings.TrimSpace(text))]; ok {
		return full
	}
	return text
}

// Origin is the hometown/school split of a combined roster cell.
type Origin struct {
	Hometown       string
	HighSchool     string
	PreviousSchool string
}

var institutionIndicators = []string{"University", "College", "State", "Tech", "Institute"}

// ParseHometownSchool splits "City, ST / High School / Previous College". A
// second segment naming an institution is treated as the previous school.
// Text without a "/" is all hometown.
func ParseHometownSchool(text string) Origin {
	text = Normalize(text)
	if text == "" {
		return Origin{}
	}
	if !strings.Contains(text, "/") {
		return Origin{Hometown: text}
	}

	parts := strings.Split(text, "/")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	o := Origin{Hometown: parts[0]}
	if len(parts) > 1 {
		if IsInstitution(parts[1]) {
			o.PreviousSchool = parts[1]
		} else {
			o.HighSchool = parts[1]
		}
	}
	if len(parts) > 2 {
		o.PreviousSchool = parts[2]
	}
	return o
}

// IsInstitution reports whether s names a post-secondary school.
func IsInstitution(s string) bool {
	for _, ind := range institutionIndicators {
		if strings.Contains(s, ind) {
			return true
		}
	}
	return false
}
