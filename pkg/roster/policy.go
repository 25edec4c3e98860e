package roster

// URLQuirk names a roster URL construction rule.
type URLQuirk string

const (
	QuirkAuto        URLQuirk = ""             // pick from the base URL shape
	QuirkDefault     URLQuirk = "default"      // {base}/roster/{season}
	QuirkPlain       URLQuirk = "plain"        // {base}/roster
	QuirkSeasonRange URLQuirk = "season_range" // {base}/roster/{YYYY-YY}
	QuirkRangePrefix URLQuirk = "range_prefix" // {base}/{YYYY-YY}/roster
	QuirkIndex       URLQuirk = "index"        // {base minus /index}/{YYYY-YY}/roster
	QuirkQuery       URLQuirk = "query"        // {base}/roster?season={season}
)

// Policy is a read-only per-team extraction override. The zero value means
// auto-detect everything.
type Policy struct {
	Format      Format   `yaml:"format" json:"format,omitempty" validate:"omitempty,oneof=unknown sidearm-list field-table results-table container-table data-label-table card-layout schema-block custom-list generic-table"`
	Render      bool     `yaml:"render" json:"render,omitempty"`
	URLQuirk    URLQuirk `yaml:"url_quirk" json:"url_quirk,omitempty" validate:"omitempty,oneof=default plain season_range range_prefix index query"`
	PathSegment string   `yaml:"path_segment" json:"path_segment,omitempty" validate:"omitempty,excludesall=?#"`
	Enrich      *bool    `yaml:"enrich" json:"enrich,omitempty"`
}

// HasFormat reports whether the policy pins a template format.
func (p Policy) HasFormat() bool {
	return p.Format != "" && p.Format != FormatUnknown
}

// Validate checks the policy's enumerated fields.
func (p Policy) Validate() error {
	return validate.Struct(p)
}
