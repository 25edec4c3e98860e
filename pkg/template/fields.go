package template

import (
	"strings"

	"github.com/jmylchreest/soccer-rosters/pkg/fields"
	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// field is a target column of a roster record.
type field int

const (
	fieldNone field = iota
	fieldJersey
	fieldName
	fieldPosition
	fieldHeight
	fieldYear
	fieldMajor
	fieldHometown
	fieldHighSchool
	fieldPrevious
	fieldOrigin // combined "Hometown / High School" cell
)

var headerSynonyms = map[string]field{
	"#": fieldJersey, "no": fieldJersey, "no.": fieldJersey, "num": fieldJersey,
	"number": fieldJersey, "jersey": fieldJersey, "jersey number": fieldJersey, "jersey_number": fieldJersey,

	"name": fieldName, "player": fieldName, "full name": fieldName, "player name": fieldName,
	"athlete": fieldName, "roster name": fieldName,

	"pos": fieldPosition, "pos.": fieldPosition, "position": fieldPosition, "position short": fieldPosition,

	"ht": fieldHeight, "ht.": fieldHeight, "height": fieldHeight, "height feet": fieldHeight,

	"cl": fieldYear, "cl.": fieldYear, "class": fieldYear, "yr": fieldYear, "yr.": fieldYear,
	"year": fieldYear, "academic year": fieldYear, "elig": fieldYear, "elig.": fieldYear,
	"eligibility": fieldYear, "academic_year": fieldYear,

	"major": fieldMajor, "academic major": fieldMajor,

	"hometown": fieldHometown, "home town": fieldHometown,

	"high school": fieldHighSchool, "hs": fieldHighSchool, "highschool": fieldHighSchool,

	"previous school": fieldPrevious, "last school": fieldPrevious, "prev. school": fieldPrevious,
	"previous college": fieldPrevious, "former school": fieldPrevious, "previous_school": fieldPrevious,
	"transfer": fieldPrevious,
}

// classify maps a header, data attribute or inline label to a field.
func classify(label string) field {
	key := strings.ToLower(strings.Join(strings.Fields(label), " "))
	key = strings.TrimSuffix(strings.TrimSpace(key), ":")
	key = strings.TrimSpace(key)
	if key == "" {
		return fieldNone
	}
	if f, ok := headerSynonyms[key]; ok {
		return f
	}
	if f, ok := headerSynonyms[strings.ReplaceAll(strings.ReplaceAll(key, "-", " "), "_", " ")]; ok {
		return f
	}
	switch {
	case strings.Contains(key, "hometown") && (strings.Contains(key, "/") || strings.Contains(key, "school")):
		return fieldOrigin
	case strings.Contains(key, "hometown"):
		return fieldHometown
	case strings.Contains(key, "high school") || strings.Contains(key, "highschool"):
		return fieldHighSchool
	case strings.Contains(key, "previous") || strings.Contains(key, "last school"):
		return fieldPrevious
	case strings.Contains(key, "position"):
		return fieldPosition
	case strings.Contains(key, "jersey"):
		return fieldJersey
	case strings.Contains(key, "height") || strings.HasPrefix(key, "ht."):
		return fieldHeight
	case strings.Contains(key, "academic year") || strings.Contains(key, "class"):
		return fieldYear
	case strings.Contains(key, "major"):
		return fieldMajor
	}
	return fieldNone
}

// set parses raw text for f and stores it on rec. Values already present are
// not overwritten, so the most specific source should be applied first.
func set(rec *roster.Record, f field, raw string) {
	switch f {
	case fieldJersey:
		setIfEmpty(&rec.Jersey, fields.ParseJersey(fields.Normalize(raw)))
	case fieldName:
		setIfEmpty(&rec.Name, fields.Normalize(raw))
	case fieldPosition:
		setIfEmpty(&rec.Position, fields.ParsePosition(fields.Normalize(raw)))
	case fieldHeight:
		setIfEmpty(&rec.Height, fields.ParseHeight(fields.Normalize(raw)))
	case fieldYear:
		if v := fields.Normalize(raw); v != "" {
			setIfEmpty(&rec.AcademicYear, fields.NormalizeAcademicYear(v))
		}
	case fieldMajor:
		setIfEmpty(&rec.Major, fields.Normalize(raw))
	case fieldHometown:
		v := fields.Normalize(raw)
		if strings.Contains(v, "/") {
			setOrigin(rec, fields.ParseHometownSchool(v))
			return
		}
		setIfEmpty(&rec.Hometown, v)
	case fieldHighSchool:
		setIfEmpty(&rec.HighSchool, fields.Normalize(raw))
	case fieldPrevious:
		setIfEmpty(&rec.PreviousSchool, fields.Normalize(raw))
	case fieldOrigin:
		setOrigin(rec, fields.ParseHometownSchool(raw))
	}
}

func setOrigin(rec *roster.Record, o fields.Origin) {
	setIfEmpty(&rec.Hometown, o.Hometown)
	setIfEmpty(&rec.HighSchool, o.HighSchool)
	setIfEmpty(&rec.PreviousSchool, o.PreviousSchool)
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}
