// Package config holds run settings and the per-team policy table.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Settings are the run options shared by every command. They are read from
// flags, ROSTERS_* environment variables and .soccer-rosters.yaml.
type Settings struct {
	Season        string        `mapstructure:"season" validate:"required"`
	Division      string        `mapstructure:"division"`
	TeamsFile     string        `mapstructure:"teams_file"`
	PoliciesFile  string        `mapstructure:"policies_file"`
	Output        string        `mapstructure:"output"`
	Format        string        `mapstructure:"format" validate:"oneof=json jsonl yaml csv"`
	Delay         time.Duration `mapstructure:"delay" validate:"gte=0"`
	EnrichDelay   time.Duration `mapstructure:"enrich_delay" validate:"gte=0"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gte=0"`
	UserAgent     string        `mapstructure:"user_agent"`
	Render        string        `mapstructure:"render" validate:"oneof=auto static dynamic"`
	RedisURL      string        `mapstructure:"redis_url"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	PostgresDSN   string        `mapstructure:"postgres_dsn"`
	MetricsFile   string        `mapstructure:"metrics_file"`
	EnrichDomains []string      `mapstructure:"enrich_domains"`
	Limit         int           `mapstructure:"limit" validate:"gte=0"`
	TeamIDs       []string      `mapstructure:"team_ids"`
}

// Defaults registers default values on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("format", "json")
	v.SetDefault("delay", 2*time.Second)
	v.SetDefault("enrich_delay", 1*time.Second)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("render", "static")
	v.SetDefault("cache_ttl", 12*time.Hour)
}

var validate = validator.New()

// Load reads and validates settings from v.
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}
	s.Format = strings.ToLower(strings.TrimSpace(s.Format))
	s.Render = strings.ToLower(strings.TrimSpace(s.Render))
	s.EnrichDomains = splitList(s.EnrichDomains)
	s.TeamIDs = splitList(s.TeamIDs)

	if err := validate.Struct(s); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// splitList flattens comma-separated entries, as environment variables
// deliver lists as a single string.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
