// Package teams loads the list of teams to scrape.
package teams

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/soccer-rosters/internal/logger"
	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// ErrUnknownTeam is returned when a requested team id is not in the list.
var ErrUnknownTeam = errors.New("unknown team")

// List is an ordered team list.
type List []roster.Team

// Load reads a team list from path. Files ending in .yaml or .yml are read
// as YAML; everything else as CSV with an ncaa_id,team,url,division header.
func Load(path string) (List, error) {
	f, err := os.Open(path) //#nosec G304 -- user-specified teams file
	if err != nil {
		return nil, fmt.Errorf("failed to open teams file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var list List
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		list, err = ReadYAML(f)
	default:
		list, err = ReadCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// ReadCSV parses a CSV team list. Columns are located by header name, so
// extra columns are ignored. Rows missing an id, name or URL are skipped.
func ReadCSV(r io.Reader) (List, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return List{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"ncaa_id", "team", "url"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	list := List{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t := roster.Team{
			ID:       get(row, "ncaa_id"),
			Name:     get(row, "team"),
			BaseURL:  get(row, "url"),
			Division: get(row, "division"),
		}
		if err := t.Validate(); err != nil {
			logger.Warn("skipping team row", "line", line, "error", err)
			continue
		}
		list = append(list, t)
	}
	return list, nil
}

type teamFile struct {
	Teams []roster.Team `yaml:"teams"`
}

// ReadYAML parses a YAML team list of the form `teams: [{ncaa_id, team,
// url, division}]`. Unlike CSV, an invalid entry is an error.
func ReadYAML(r io.Reader) (List, error) {
	var tf teamFile
	if err := yaml.NewDecoder(r).Decode(&tf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse teams: %w", err)
	}
	for i, t := range tf.Teams {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("team %d: %w", i+1, err)
		}
	}
	if tf.Teams == nil {
		return List{}, nil
	}
	return List(tf.Teams), nil
}

// Find returns the team with the given id.
func (l List) Find(id string) (roster.Team, error) {
	for _, t := range l {
		if t.ID == id {
			return t, nil
		}
	}
	return roster.Team{}, fmt.Errorf("%w: %s", ErrUnknownTeam, id)
}

// Filter selects a subset of a team list.
type Filter struct {
	Division    string   // case-insensitive match; empty matches all
	TeamIDs     []string // explicit ids; empty matches all
	URLContains string   // substring the base URL must contain, e.g. "/mens-soccer"
	Limit       int      // maximum teams; 0 means no limit
}

// Apply returns the teams matching f in list order. Every id in TeamIDs must
// exist in the list.
func (f Filter) Apply(l List) (List, error) {
	wanted := make(map[string]bool, len(f.TeamIDs))
	for _, id := range f.TeamIDs {
		if _, err := l.Find(id); err != nil {
			return nil, err
		}
		wanted[id] = true
	}

	out := List{}
	for _, t := range l {
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
		if len(wanted) > 0 && !wanted[t.ID] {
			continue
		}
		if f.Division != "" && !strings.EqualFold(t.Division, f.Division) {
			continue
		}
		if f.URLContains != "" && !strings.Contains(t.BaseURL, f.URLContains) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// WithSeason returns a copy of the list with every team's season set.
func (l List) WithSeason(season string) List {
	out := make(List, len(l))
	for i, t := range l {
		t.Season = season
		out[i] = t
	}
	return out
}
