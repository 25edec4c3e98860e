// Package metrics records per-run extraction counts and exports them in the
// Prometheus text format for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

type key struct {
	format  roster.Format
	outcome roster.Outcome
}

// Recorder counts team outcomes by template format. A nil *Recorder is a
// valid no-op recorder.
type Recorder struct {
	mu       sync.Mutex
	teams    map[key]int
	records  map[roster.Format]int
	retries  int
	enriched int
	elapsed  time.Duration
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		teams:   make(map[key]int),
		records: make(map[roster.Format]int),
	}
}

// Team describes one finished team for recording.
type Team struct {
	Format   roster.Format
	Outcome  roster.Outcome
	Records  int
	Retried  bool
	Enriched int
	Duration time.Duration
}

// RecordTeam adds one team's outcome.
func (r *Recorder) RecordTeam(t Team) {
	if r == nil {
		return
	}
	format := t.Format
	if format == "" {
		format = roster.FormatUnknown
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[key{format, t.Outcome}]++
	r.records[format] += t.Records
	if t.Retried {
		r.retries++
	}
	r.enriched += t.Enriched
	r.elapsed += t.Duration
}

// Snapshot is a point-in-time copy of the recorder's totals.
type Snapshot struct {
	Accepted int
	Failed   int
	Records  int
	Retries  int
	Enriched int
	Elapsed  time.Duration
	ByFormat map[roster.Format]int // accepted teams per format
}

// Snapshot returns the current totals.
func (r *Recorder) Snapshot() Snapshot {
	s := Snapshot{ByFormat: map[roster.Format]int{}}
	if r == nil {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for k, n := range r.teams {
		switch k.outcome {
		case roster.OutcomeAccepted:
			s.Accepted += n
			s.ByFormat[k.format] += n
		case roster.OutcomeFailed:
			s.Failed += n
		}
	}
	for _, n := range r.records {
		s.Records += n
	}
	s.Retries = r.retries
	s.Enriched = r.enriched
	s.Elapsed = r.elapsed
	return s
}

// Formats returns the accepted formats ordered by team count, highest first.
func (s Snapshot) Formats() []roster.Format {
	out := make([]roster.Format, 0, len(s.ByFormat))
	for f := range s.ByFormat {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if s.ByFormat[out[i]] != s.ByFormat[out[j]] {
			return s.ByFormat[out[i]] > s.ByFormat[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// Registry builds a Prometheus registry holding the recorder's totals.
func (r *Recorder) Registry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	teams := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rosters_teams_total",
		Help: "Teams processed, by detected template format and outcome.",
	}, []string{"format", "outcome"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rosters_records_total",
		Help: "Player records emitted, by template format.",
	}, []string{"format"})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rosters_retries_total",
		Help: "Teams retried with an alternate roster URL.",
	})
	enriched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rosters_enriched_records_total",
		Help: "Records completed from player profile pages.",
	})
	elapsed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rosters_run_duration_seconds",
		Help: "Time spent processing teams in the last run.",
	})

	for _, c := range []prometheus.Collector{teams, records, retries, enriched, elapsed} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	if r != nil {
		r.mu.Lock()
		for k, n := range r.teams {
			teams.WithLabelValues(string(k.format), string(k.outcome)).Add(float64(n))
		}
		for f, n := range r.records {
			records.WithLabelValues(string(f)).Add(float64(n))
		}
		retries.Add(float64(r.retries))
		enriched.Add(float64(r.enriched))
		elapsed.Set(r.elapsed.Seconds())
		r.mu.Unlock()
	}
	return reg, nil
}

// WriteTextfile writes the totals to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	reg, err := r.Registry()
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
