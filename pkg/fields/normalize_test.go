package fields

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", " \n\t ", ""},
		{"collapses runs", "  Jane \n\t  Doe  ", "Jane Doe"},
		{"trailing full bio", "Jane Doe Full Bio", "Jane Doe"},
		{"trailing instagram", "Austin, TX Instagram @janedoe", "Austin, TX"},
		{"trailing new window", "Jane Doe Opens in a new window", "Jane Doe"},
		{"noise case-insensitive", "Jane Doe FULL BIO", "Jane Doe"},
		{"class label", "Class: Jr.", "Jr."},
		{"hometown label", "hometown: Austin, TX", "Austin, TX"},
		{"position label", "Pos.: MF", "MF"},
		{"stacked labels", "Cl.: Yr.: So.", "So."},
		{"combined label", "Hometown/High School: Cary, NC / Green Hope", "Cary, NC / Green Hope"},
		{"label only", "Class:", ""},
		{"non-breaking space", "Jane\u00a0Doe", "Jane Doe"},
		{"label mid-text kept", "Jane Class: Doe", "Jane Class: Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"  Jane   Doe ",
		"Class: Hometown: Austin Full Bio",
		"Pos.:   F   Twitter",
		"No.: 7",
		"Ht.: 6'2\" / 1.88m",
		"Cafe\u0301 Player",
		"Class:Class: Jr.",
		"\t\n",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
		if strings.Contains(once, "  ") {
			t.Errorf("Normalize(%q) = %q contains doubled whitespace", in, once)
		}
	}
}

func TestNormalize_ComposesAccents(t *testing.T) {
	decomposed := "Jose\u0301"
	if got := Normalize(decomposed); got != "Jos\u00e9" {
		t.Errorf("Normalize(%q) = %q, want composed form", decomposed, got)
	}
}
