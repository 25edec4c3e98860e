package output

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/jmylchreest/soccer-rosters/internal/logger"
	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// DefaultTable is the table records are copied into.
const DefaultTable = "roster_records"

// PostgresStore appends records to a Postgres table using COPY, one
// transaction per team.
type PostgresStore struct {
	db    *sql.DB
	table string
	runID string
}

// OpenPostgres connects to dsn, verifies the connection and creates the
// records table if it does not exist.
func OpenPostgres(ctx context.Context, dsn, runID string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	s := &PostgresStore{db: db, table: DefaultTable, runID: runID}
	if _, err := db.ExecContext(ctx, createTableSQL(s.table)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create %s: %w", s.table, err)
	}
	return s, nil
}

// copyColumns is the COPY column list: run id, scrape time, then the record
// columns.
func copyColumns() []string {
	cols := make([]string, 0, len(roster.Columns)+2)
	cols = append(cols, "run_id", "scraped_at")
	return append(cols, roster.Columns...)
}

func createTableSQL(table string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", pq.QuoteIdentifier(table))
	b.WriteString("  run_id text NOT NULL,\n  scraped_at timestamptz NOT NULL")
	for _, c := range roster.Columns {
		fmt.Fprintf(&b, ",\n  %s text NOT NULL DEFAULT ''", pq.QuoteIdentifier(c))
	}
	b.WriteString("\n)")
	return b.String()
}

// Store copies one team's records. An empty batch is a no-op.
func (s *PostgresStore) Store(ctx context.Context, records []roster.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(s.table, copyColumns()...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	now := time.Now().UTC()
	for _, rec := range records {
		args := make([]any, 0, len(roster.Columns)+2)
		args = append(args, s.runID, now)
		for _, v := range rec.Row() {
			args = append(args, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("failed to copy record %q: %w", rec.Name, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("failed to finish copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	logger.Debug("stored records", "table", s.table, "count", len(records))
	return nil
}

// Close closes the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
