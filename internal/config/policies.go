package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

//go:embed policies.yaml
var defaultPolicies []byte

// Policies is the read-only per-team override table, loaded once per run.
type Policies struct {
	byTeam map[string]roster.Policy
}

type policyFile struct {
	Teams map[string]roster.Policy `yaml:"teams"`
}

// DefaultPolicies returns the table compiled into the binary.
func DefaultPolicies() (*Policies, error) {
	return LoadPolicies(bytes.NewReader(defaultPolicies))
}

// LoadPoliciesFile reads a policy table from path. An empty path selects the
// built-in table.
func LoadPoliciesFile(path string) (*Policies, error) {
	if path == "" {
		return DefaultPolicies()
	}
	f, err := os.Open(path) //#nosec G304 -- user-specified policy file
	if err != nil {
		return nil, fmt.Errorf("failed to open policy file: %w", err)
	}
	defer func() { _ = f.Close() }()

	p, err := LoadPolicies(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadPolicies parses and validates a YAML policy table.
func LoadPolicies(r io.Reader) (*Policies, error) {
	var pf policyFile
	if err := yaml.NewDecoder(r).Decode(&pf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse policy table: %w", err)
	}

	p := &Policies{byTeam: make(map[string]roster.Policy, len(pf.Teams))}
	for id, pol := range pf.Teams {
		if err := pol.Validate(); err != nil {
			return nil, fmt.Errorf("invalid policy for team %s: %w", id, err)
		}
		p.byTeam[id] = pol
	}
	return p, nil
}

// Lookup returns the override for a team. A team without an entry gets the
// zero Policy, which auto-detects everything.
func (p *Policies) Lookup(teamID string) (roster.Policy, bool) {
	if p == nil {
		return roster.Policy{}, false
	}
	pol, ok := p.byTeam[teamID]
	return pol, ok
}

// Teams returns the team ids with overrides, sorted.
func (p *Policies) Teams() []string {
	if p == nil {
		return nil
	}
	ids := make([]string, 0, len(p.byTeam))
	for id := range p.byTeam {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of overrides.
func (p *Policies) Len() int {
	if p == nil {
		return 0
	}
	return len(p.byTeam)
}
