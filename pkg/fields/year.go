package fields

import "strings"

// spelledOrdinals are dictionary keys too common in prose to trust when
// scanning free text.
var spelledOrdinals = map[string]bool{"first": true, "second": true, "third": true, "fourth": true}

// FindAcademicYear scans free text for a class token such as "Jr." or "R-Fr"
// and returns its full name, or "" when none is present.
func FindAcademicYear(text string) string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '|' || r == '/' || r == '·' || r == '(' || r == ')'
	})
	for _, tok := range tokens {
		key := strings.ToLower(tok)
		if spelledOrdinals[key] {
			continue
		}
		if full, ok := academicYears[key]; ok {
			return full
		}
	}
	return ""
}
