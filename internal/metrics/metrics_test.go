package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

func TestRecorder_Snapshot(t *testing.T) {
	rec := NewRecorder()
	rec.RecordTeam(Team{Format: roster.FormatSidearmList, Outcome: roster.OutcomeAccepted, Records: 25, Duration: time.Second})
	rec.RecordTeam(Team{Format: roster.FormatSidearmList, Outcome: roster.OutcomeAccepted, Records: 30, Retried: true, Duration: time.Second})
	rec.RecordTeam(Team{Format: roster.FormatFieldTable, Outcome: roster.OutcomeAccepted, Records: 20, Enriched: 18})
	rec.RecordTeam(Team{Outcome: roster.OutcomeFailed, Retried: true})

	snap := rec.Snapshot()
	if snap.Accepted != 3 || snap.Failed != 1 {
		t.Errorf("accepted=%d failed=%d, want 3 and 1", snap.Accepted, snap.Failed)
	}
	if snap.Records != 75 {
		t.Errorf("Records = %d, want 75", snap.Records)
	}
	if snap.Retries != 2 || snap.Enriched != 18 {
		t.Errorf("retries=%d enriched=%d", snap.Retries, snap.Enriched)
	}
	if snap.Elapsed != 2*time.Second {
		t.Errorf("Elapsed = %v", snap.Elapsed)
	}
	if snap.ByFormat[roster.FormatSidearmList] != 2 {
		t.Errorf("ByFormat = %v", snap.ByFormat)
	}
	if _, ok := snap.ByFormat[roster.FormatUnknown]; ok {
		t.Error("failed teams should not count toward accepted formats")
	}
}

func TestSnapshot_Formats(t *testing.T) {
	s := Snapshot{ByFormat: map[roster.Format]int{
		roster.FormatGenericTable: 1,
		roster.FormatSidearmList:  5,
		roster.FormatCardLayout:   1,
	}}
	got := s.Formats()
	want := []roster.Format{roster.FormatSidearmList, roster.FormatCardLayout, roster.FormatGenericTable}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Formats() = %v, want %v", got, want)
		}
	}
}

func TestRecorder_NilSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordTeam(Team{Outcome: roster.OutcomeAccepted})

	snap := rec.Snapshot()
	if snap.Accepted != 0 || snap.ByFormat == nil {
		t.Errorf("unexpected snapshot from nil recorder: %+v", snap)
	}
	if _, err := rec.Registry(); err != nil {
		t.Errorf("Registry() error = %v", err)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	rec := NewRecorder()
	rec.RecordTeam(Team{Format: roster.FormatSidearmList, Outcome: roster.OutcomeAccepted, Records: 25})
	rec.RecordTeam(Team{Format: roster.FormatSidearmList, Outcome: roster.OutcomeAccepted, Records: 20})
	rec.RecordTeam(Team{Outcome: roster.OutcomeFailed, Retried: true})

	path := filepath.Join(t.TempDir(), "rosters.prom")
	if err := rec.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		`rosters_teams_total{format="sidearm-list",outcome="accepted"} 2`,
		`rosters_teams_total{format="unknown",outcome="failed"} 1`,
		`rosters_records_total{format="sidearm-list"} 45`,
		"rosters_retries_total 1",
		"# TYPE rosters_run_duration_seconds gauge",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q\n%s", want, out)
		}
	}
}

func TestRecorder_WriteTextfile_BadPath(t *testing.T) {
	rec := NewRecorder()
	path := filepath.Join(t.TempDir(), "missing", "rosters.prom")
	if err := rec.WriteTextfile(path); err == nil {
		t.Error("expected error for a missing directory")
	}
}
