// Package runner drives a multi-team scrape. Teams are processed one at a
// time; each team's result is delivered on a channel as soon as it is done.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jmylchreest/soccer-rosters/internal/logger"
	"github.com/jmylchreest/soccer-rosters/internal/metrics"
	"github.com/jmylchreest/soccer-rosters/pkg/dispatch"
	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// Dispatcher extracts one team's roster.
type Dispatcher interface {
	Run(ctx context.Context, team roster.Team, policy roster.Policy) dispatch.Result
}

// Policies supplies per-team overrides.
type Policies interface {
	Lookup(teamID string) (roster.Policy, bool)
}

// Config holds runner settings.
type Config struct {
	Delay time.Duration // wait between teams
}

// DefaultConfig returns runner defaults.
func DefaultConfig() Config {
	return Config{Delay: 2 * time.Second}
}

// Runner processes a team list sequentially.
type Runner struct {
	dispatcher Dispatcher
	policies   Policies
	metrics    *metrics.Recorder
	config     Config
	runID      string
}

// New creates a Runner. policies and rec may be nil.
func New(d Dispatcher, policies Policies, rec *metrics.Recorder, cfg Config) *Runner {
	return &Runner{
		dispatcher: d,
		policies:   policies,
		metrics:    rec,
		config:     cfg,
		runID:      uuid.NewString(),
	}
}

// RunID identifies this run in logs and stored records.
func (r *Runner) RunID() string {
	return r.runID
}

// Run processes teams in order and returns their results via channel. The
// channel is closed after the last team or when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, teams []roster.Team) <-chan dispatch.Result {
	results := make(chan dispatch.Result, 1)

	go func() {
		defer close(results)
		r.run(ctx, teams, results)
	}()

	return results
}

func (r *Runner) run(ctx context.Context, teams []roster.Team, results chan<- dispatch.Result) {
	log := logger.With("run_id", r.runID)
	log.Info("run starting", "teams", len(teams), "delay", r.config.Delay)

	for i, team := range teams {
		if i > 0 && !wait(ctx, r.config.Delay) {
			log.Info("run cancelled", "remaining", len(teams)-i)
			return
		}
		if ctx.Err() != nil {
			return
		}

		policy := r.policy(team.ID)
		start := time.Now()
		res := r.dispatcher.Run(ctx, team, policy)
		elapsed := time.Since(start)

		diag := res.Diagnostics
		r.metrics.RecordTeam(metrics.Team{
			Format:   diag.Format,
			Outcome:  diag.Outcome,
			Records:  len(res.Records),
			Retried:  diag.Retried,
			Enriched: diag.Enriched,
			Duration: elapsed,
		})

		if res.Accepted() {
			log.Info("team done",
				"team", team.Name,
				"format", diag.Format,
				"records", len(res.Records),
				"retried", diag.Retried,
				"duration", elapsed.Round(time.Millisecond))
		} else {
			log.Info("team failed",
				"team", team.Name,
				"detected", diag.Detected,
				"url", diag.URL,
				"error", diag.Error,
				"duration", elapsed.Round(time.Millisecond))
		}

		select {
		case results <- res:
		case <-ctx.Done():
			return
		}
	}
}

func (r *Runner) policy(teamID string) roster.Policy {
	if r.policies == nil {
		return roster.Policy{}
	}
	p, _ := r.policies.Lookup(teamID)
	return p
}

func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
