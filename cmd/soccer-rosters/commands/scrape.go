package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/soccer-rosters/internal/config"
	"github.com/jmylchreest/soccer-rosters/internal/logger"
	"github.com/jmylchreest/soccer-rosters/internal/metrics"
	"github.com/jmylchreest/soccer-rosters/internal/output"
	"github.com/jmylchreest/soccer-rosters/internal/runner"
	"github.com/jmylchreest/soccer-rosters/internal/teams"
	"github.com/jmylchreest/soccer-rosters/pkg/dispatch"
	"github.com/jmylchreest/soccer-rosters/pkg/fetcher"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Extract rosters for a list of teams",
	Long: `Scrape roster pages for every team in a teams file and write one
record per player.

The teams file is CSV with an ncaa_id,team,url,division header, or YAML
with a top-level "teams" list. Each url is the team's sport home page; the
roster URL is built from it and the season.

Examples:
  soccer-rosters scrape --teams teams.csv --season 2025
  soccer-rosters scrape --teams teams.yaml --season 2025 --team 457 --team 193
  soccer-rosters scrape --teams teams.csv --season 2025 --format csv \
      --postgres-dsn postgres://localhost/rosters --metrics-file rosters.prom`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	flags := scrapeCmd.Flags()

	// Inputs
	flags.StringP("teams", "t", "", "teams file (CSV or YAML)")
	flags.StringP("season", "s", "", "season year, e.g. 2025")
	flags.String("division", "", "only teams in this division (I, II, III)")
	flags.StringSlice("team", nil, "only these NCAA team ids (can be repeated)")
	flags.String("url-contains", "", "only teams whose URL contains this text, e.g. /mens-soccer")
	flags.Int("limit", 0, "max teams to process (0=all)")
	flags.String("policies", "", "per-team policy file (default: built-in)")

	// Output
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml, csv")
	flags.String("postgres-dsn", "", "also copy records into Postgres")
	flags.String("metrics-file", "", "write Prometheus metrics to this file")

	// Fetching
	flags.String("render", "static", "fetch mode: static, dynamic, auto")
	flags.Duration("delay", 2*time.Second, "delay between teams")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.String("user-agent", "", "user agent (default: desktop Chrome)")
	flags.String("redis-url", "", "cache fetched pages in Redis")
	flags.Duration("cache-ttl", 12*time.Hour, "page cache TTL")
	flags.StringSlice("enrich-domain", nil, "fetch player profiles on these hosts (can be repeated)")
	flags.Duration("enrich-delay", time.Second, "delay between profile fetches")

	for key, name := range map[string]string{
		"teams_file":     "teams",
		"season":         "season",
		"division":       "division",
		"team_ids":       "team",
		"limit":          "limit",
		"policies_file":  "policies",
		"output":         "output",
		"format":         "format",
		"postgres_dsn":   "postgres-dsn",
		"metrics_file":   "metrics-file",
		"render":         "render",
		"delay":          "delay",
		"timeout":        "timeout",
		"user_agent":     "user-agent",
		"redis_url":      "redis-url",
		"cache_ttl":      "cache-ttl",
		"enrich_domains": "enrich-domain",
		"enrich_delay":   "enrich-delay",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

func runScrape(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if settings.TeamsFile == "" {
		return fmt.Errorf("a teams file is required (--teams)")
	}

	all, err := teams.Load(settings.TeamsFile)
	if err != nil {
		return err
	}
	urlContains, _ := cmd.Flags().GetString("url-contains")
	selected, err := teams.Filter{
		Division:    settings.Division,
		TeamIDs:     settings.TeamIDs,
		URLContains: urlContains,
		Limit:       settings.Limit,
	}.Apply(all)
	if err != nil {
		return err
	}
	selected = selected.WithSeason(settings.Season)
	logger.Debug("teams selected", "loaded", len(all), "selected", len(selected))
	if len(selected) == 0 {
		logger.Warn("no teams match the filters")
	}

	policies, err := config.LoadPoliciesFile(settings.PoliciesFile)
	if err != nil {
		return err
	}
	logger.Debug("policies loaded", "overrides", policies.Len())

	pages, renderer, closeFetchers, err := buildFetchers(ctx, settings, needsRenderer(selected, policies))
	if err != nil {
		return err
	}
	defer closeFetchers()

	dcfg := dispatch.DefaultConfig()
	dcfg.FetchOptions = fetcher.Options{UserAgent: settings.UserAgent, Timeout: settings.Timeout}
	dcfg.EnrichDomains = settings.EnrichDomains
	dcfg.EnrichDelay = settings.EnrichDelay
	d := dispatch.New(pages, renderer, nil, dcfg)

	rec := metrics.NewRecorder()
	run := runner.New(d, policies, rec, runner.Config{Delay: settings.Delay})

	out, closeOut, err := openOutput(settings.Output)
	if err != nil {
		return err
	}
	defer closeOut()

	writer, err := output.NewWriter(out, output.Format(settings.Format))
	if err != nil {
		return err
	}

	var store *output.PostgresStore
	if settings.PostgresDSN != "" {
		store, err = output.OpenPostgres(ctx, settings.PostgresDSN, run.RunID())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	start := time.Now()
	var writeErr error
	for res := range run.Run(ctx, selected) {
		if !res.Accepted() {
			continue
		}
		if err := writer.WriteAll(res.Records); err != nil {
			writeErr = fmt.Errorf("failed to write records: %w", err)
			cancel()
			break
		}
		if store != nil {
			if err := store.Store(ctx, res.Records); err != nil {
				logger.Error("failed to store records", "team", res.Team.Name, "error", err)
			}
		}
	}
	if err := writer.Close(); err != nil && writeErr == nil {
		writeErr = fmt.Errorf("failed to write output: %w", err)
	}

	if settings.MetricsFile != "" {
		if err := rec.WriteTextfile(settings.MetricsFile); err != nil {
			logger.Error("failed to write metrics", "path", settings.MetricsFile, "error", err)
		}
	}

	summarize(rec.Snapshot(), time.Since(start), settings.Output)
	if writeErr != nil {
		return writeErr
	}
	return ctx.Err()
}

// buildFetchers creates the page fetcher and, when some team needs script
// rendering that the page fetcher cannot do, a separate renderer. Both are
// wrapped in the Redis page cache when one is configured.
func buildFetchers(ctx context.Context, s config.Settings, wantRenderer bool) (pages, renderer fetcher.Fetcher, closeAll func(), err error) {
	cfg := fetcher.Config{UserAgent: s.UserAgent, Timeout: s.Timeout}
	var closers []io.Closer
	closeAll = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}

	mode := fetcher.Mode(s.Render)
	pages, err = fetcher.New(mode, cfg)
	if err != nil {
		return nil, nil, closeAll, err
	}
	closers = append(closers, pages)

	if wantRenderer && mode != fetcher.ModeDynamic {
		dyn, err := fetcher.NewDynamic(cfg)
		if err != nil {
			closeAll()
			return nil, nil, func() {}, err
		}
		renderer = dyn
		closers = append(closers, dyn)
	}

	if s.RedisURL != "" {
		cache, err := fetcher.NewRedisCache(ctx, s.RedisURL)
		if err != nil {
			closeAll()
			return nil, nil, func() {}, err
		}
		closers = append(closers, cache)
		pages = fetcher.NewCaching(pages, cache, s.CacheTTL)
		if renderer != nil {
			renderer = fetcher.NewCaching(renderer, cache, s.CacheTTL)
		}
		logger.Debug("page cache enabled", "ttl", s.CacheTTL)
	}

	logger.Debug("fetchers ready", "pages", pages.Type(), "renderer", renderer != nil)
	return pages, renderer, closeAll, nil
}

func needsRenderer(list teams.List, policies *config.Policies) bool {
	for _, t := range list {
		if p, ok := policies.Lookup(t.ID); ok && p.Render {
			return true
		}
	}
	return false
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path) //#nosec G304 -- CLI tool writes to user-specified output file
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func summarize(s metrics.Snapshot, elapsed time.Duration, outPath string) {
	formats := make([]string, 0, len(s.ByFormat))
	for _, f := range s.Formats() {
		formats = append(formats, fmt.Sprintf("%s=%d", f, s.ByFormat[f]))
	}

	args := []any{
		"accepted", s.Accepted,
		"failed", s.Failed,
		"records", humanize.Comma(int64(s.Records)),
		"retries", s.Retries,
		"enriched", s.Enriched,
		"formats", strings.Join(formats, ","),
		"elapsed", elapsed.Round(time.Second),
	}
	if outPath != "" && outPath != "-" {
		if fi, err := os.Stat(outPath); err == nil {
			args = append(args, "output", outPath, "size", humanize.Bytes(uint64(fi.Size()))) //#nosec G115 -- file sizes are non-negative
		}
	}
	logger.Info("run complete", args...)
}
