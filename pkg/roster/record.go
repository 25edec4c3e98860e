// Package roster defines the data model shared by the extraction packages:
// player records, team context, template formats and per-team policy.
package roster

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Record is one row of team roster output. Every field is a plain string so
// tabular output always has a stable column set; missing values are "".
type Record struct {
	TeamID         string `json:"ncaa_id" yaml:"ncaa_id"`
	TeamName       string `json:"team" yaml:"team"`
	Season         string `json:"season" yaml:"season"`
	Division       string `json:"division" yaml:"division"`
	Jersey         string `json:"jersey" yaml:"jersey"`
	Name           string `json:"name" yaml:"name" validate:"required"`
	Position       string `json:"position" yaml:"position" validate:"omitempty,oneof=GK D M F"`
	Height         string `json:"height" yaml:"height"`
	AcademicYear   string `json:"class" yaml:"class"`
	Major          string `json:"major" yaml:"major"`
	Hometown       string `json:"hometown" yaml:"hometown"`
	HighSchool     string `json:"high_school" yaml:"high_school"`
	PreviousSchool string `json:"previous_school" yaml:"previous_school"`
	ProfileURL     string `json:"url" yaml:"url" validate:"omitempty,url"`
}

// Columns is the fixed tabular column order for a Record.
var Columns = []string{
	"ncaa_id", "team", "season", "division", "jersey", "name", "position",
	"height", "class", "major", "hometown", "high_school", "previous_school", "url",
}

// Row returns the record values in Columns order.
func (r Record) Row() []string {
	return []string{
		r.TeamID, r.TeamName, r.Season, r.Division, r.Jersey, r.Name, r.Position,
		r.Height, r.AcademicYear, r.Major, r.Hometown, r.HighSchool, r.PreviousSchool, r.ProfileURL,
	}
}

// Validate checks the record invariants.
func (r Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid record %q: %w", r.Name, err)
	}
	return nil
}

// Team is the caller-supplied context for one roster page.
type Team struct {
	ID       string `json:"ncaa_id" yaml:"ncaa_id" validate:"required"`
	Name     string `json:"team" yaml:"team" validate:"required"`
	Season   string `json:"season" yaml:"season"`
	Division string `json:"division" yaml:"division"`
	BaseURL  string `json:"url" yaml:"url" validate:"required,url"`
}

// Stamp returns a record pre-filled with the team's pass-through context.
func (t Team) Stamp() Record {
	return Record{
		TeamID:   t.ID,
		TeamName: t.Name,
		Season:   t.Season,
		Division: t.Division,
	}
}

// Domain returns the scheme and host of the team's site, e.g.
// "https://goheels.com". It is empty when BaseURL does not parse.
func (t Team) Domain() string {
	u, err := url.Parse(strings.TrimSpace(t.BaseURL))
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + u.Host
}

// ResolveURL turns a profile link found on the team's pages into an absolute
// URL. Absolute links are returned unchanged; fragments, javascript: and
// mailto: links resolve to "".
func (t Team) ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return href
	}

	base, err := url.Parse(strings.TrimSpace(t.BaseURL))
	if err != nil || base.Host == "" {
		return ""
	}
	if base.Scheme == "" {
		base.Scheme = "https"
	}
	return base.ResolveReference(ref).String()
}

// Validate checks that the team has an id, a name and a parseable base URL.
func (t Team) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid team %q: %w", t.ID, err)
	}
	return nil
}
