package fields

import "testing"

func TestParseJersey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"7", "7"},
		{" 23 ", "23"},
		{"#10", "10"},
		{"Jersey Number 7", "7"},
		{"Jersey Number: 14", "14"},
		{"No. 9", "9"},
		{"No.:12", "12"},
		{"4 Jane Doe", "4"},
		{"Jane Doe", ""},
		{"123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseJersey(tt.input); got != tt.want {
				t.Errorf("ParseJersey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMarkedJersey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"5-11 Austin", ""},
		{"7", ""},
		{"Forward #23", "23"},
		{"No. 4 Defender", "4"},
		{"Jersey Number: 14", "14"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseMarkedJersey(tt.input); got != tt.want {
				t.Errorf("ParseMarkedJersey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHeight(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{`6'2"`, `6'2"`},
		{"6-2", "6-2"},
		{"5-11", "5-11"},
		{"1.88m", "1.88m"},
		{`6'2" / 1.88m`, `6'2" / 1.88m`},
		{`Ht. 5' 10"`, `5' 10"`},
		{"6′1″", "6′1″"},
		{"Height: 180 cm", "180 cm"},
		{"2024-25", ""},
		{"Midfielder", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseHeight(tt.input); got != tt.want {
				t.Errorf("ParseHeight(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"GK", "GK"},
		{"gk", "GK"},
		{"Midfielder", "M"},
		{"MF", "M"},
		{"MID", "M"},
		{"DF", "D"},
		{"def", "D"},
		{"Defender", "D"},
		{"Defense", "D"},
		{"FW", "F"},
		{"For", "F"},
		{"Forward", "F"},
		{"Striker", "F"},
		{"Goalkeeper", "GK"},
		{"Goalie", "GK"},
		{"D/M", "D"},
		{"Midfield", "M"},
		{"Coach", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParsePosition(tt.input); got != tt.want {
				t.Errorf("ParsePosition(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAcademicYear(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Fr", "Freshman"},
		{"Fr.", "Freshman"},
		{"FR", "Freshman"},
		{"So.", "Sophomore"},
		{"Jr", "Junior"},
		{"SR", "Senior"},
		{"Gr.", "Graduate"},
		{"R-Fr.", "Redshirt Freshman"},
		{"R-Jr", "Redshirt Junior"},
		{"3rd", "Junior"},
		{"Fourth", "Senior"},
		{" Sr. ", "Senior"},
		{"Grad2", "Grad2"},
		{"Senior", "Senior"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeAcademicYear(tt.input); got != tt.want {
				t.Errorf("NormalizeAcademicYear(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHometownSchool(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Origin
	}{
		{"empty", "", Origin{}},
		{
			"high school",
			"Chapel Hill, NC / Chapel Hill High School",
			Origin{Hometown: "Chapel Hill, NC", HighSchool: "Chapel Hill High School"},
		},
		{
			"institution as second segment",
			"Austin, TX / Duke University",
			Origin{Hometown: "Austin, TX", PreviousSchool: "Duke University"},
		},
		{
			"three segments",
			"London, England / Harrow School / Florida State",
			Origin{Hometown: "London, England", HighSchool: "Harrow School", PreviousSchool: "Florida State"},
		},
		{
			"no delimiter",
			"Madrid, Spain",
			Origin{Hometown: "Madrid, Spain"},
		},
		{
			"social noise stripped",
			"Cary, NC / Green Hope Instagram Opens in a new window",
			Origin{Hometown: "Cary, NC", HighSchool: "Green Hope"},
		},
		{
			"labelled",
			"Hometown/High School: Cary, NC / Green Hope",
			Origin{Hometown: "Cary, NC", HighSchool: "Green Hope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseHometownSchool(tt.input); got != tt.want {
				t.Errorf("ParseHometownSchool(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
