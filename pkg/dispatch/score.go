package dispatch

import "github.com/jmylchreest/soccer-rosters/pkg/roster"

// Coverage thresholds a record set must meet to be accepted.
const (
	MinNameCoverage     = 0.80
	MinJerseyCoverage   = 0.80
	MinPositionCoverage = 0.70
	MinYearCoverage     = 0.70
)

// Coverage is the fraction of records carrying each scored field.
type Coverage struct {
	Records      int     `json:"records" yaml:"records"`
	Name         float64 `json:"name" yaml:"name"`
	Jersey       float64 `json:"jersey" yaml:"jersey"`
	Position     float64 `json:"position" yaml:"position"`
	AcademicYear float64 `json:"class" yaml:"class"`
	Hometown     float64 `json:"hometown" yaml:"hometown"`
}

// Measure computes field coverage over records.
func Measure(records []roster.Record) Coverage {
	c := Coverage{Records: len(records)}
	if len(records) == 0 {
		return c
	}
	var name, jersey, position, year, hometown int
	for _, r := range records {
		if r.Name != "" {
			name++
		}
		if r.Jersey != "" {
			jersey++
		}
		if r.Position != "" {
			position++
		}
		if r.AcademicYear != "" {
			year++
		}
		if r.Hometown != "" {
			hometown++
		}
	}
	n := float64(len(records))
	c.Name = float64(name) / n
	c.Jersey = float64(jersey) / n
	c.Position = float64(position) / n
	c.AcademicYear = float64(year) / n
	c.Hometown = float64(hometown) / n
	return c
}

// Pass reports whether the coverage meets every threshold. An empty record
// set never passes.
func (c Coverage) Pass() bool {
	return c.Records > 0 &&
		c.Name >= MinNameCoverage &&
		c.Jersey >= MinJerseyCoverage &&
		c.Position >= MinPositionCoverage &&
		c.AcademicYear >= MinYearCoverage
}

// Score reports whether records are complete enough to accept. A partial
// structural match such as a table parsed with the wrong columns fails here
// and is treated like an empty result.
func Score(records []roster.Record) bool {
	return Measure(records).Pass()
}
