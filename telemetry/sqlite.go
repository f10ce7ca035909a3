package telemetry

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// maxPendingTicks caps the tick rows held between generation records.
const maxPendingTicks = 1024

// SQLiteSink stores records in a SQLite database, keyed by run id so
// several runs can share one file. Tick rows are buffered and flushed in a
// single transaction per generation, or once maxPendingTicks accumulate.
type SQLiteSink struct {
	conn    *sqlx.DB
	runID   string
	pending []tickRow
}

type tickRow struct {
	RunID string `db:"run_id"`
	TickRecord
}

type generationRow struct {
	RunID string `db:"run_id"`
	GenerationRecord
}

// OpenSQLite opens or creates the database at path and registers runID.
func OpenSQLite(path, runID string, seed int64) (*SQLiteSink, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteSink{conn: conn, runID: runID}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	_, err = conn.Exec(
		"INSERT OR REPLACE INTO runs (run_id, seed, started_at) VALUES (?, ?, ?)",
		runID, seed, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("register run: %w", err)
	}

	return s, nil
}

func (s *SQLiteSink) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tick_samples (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		generation INTEGER NOT NULL,
		time_remaining REAL NOT NULL,
		queen_health REAL NOT NULL,
		avg_worker_health REAL NOT NULL,
		alive_count INTEGER NOT NULL,
		nest_blocks INTEGER NOT NULL,
		mulch_consumed INTEGER NOT NULL,
		PRIMARY KEY (run_id, step)
	);

	CREATE TABLE IF NOT EXISTS generations (
		run_id TEXT NOT NULL,
		generation INTEGER NOT NULL,
		best_fitness REAL NOT NULL,
		avg_fitness REAL NOT NULL,
		median_fitness REAL NOT NULL,
		std_fitness REAL NOT NULL,
		nest_blocks INTEGER NOT NULL,
		survivors INTEGER NOT NULL,
		PRIMARY KEY (run_id, generation)
	);

	CREATE INDEX IF NOT EXISTS idx_tick_samples_generation ON tick_samples(run_id, generation);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// RunID returns the run this sink writes under.
func (s *SQLiteSink) RunID() string {
	return s.runID
}

// RecordTick implements Sink. Rows are written on the next flush.
func (s *SQLiteSink) RecordTick(r TickRecord) error {
	s.pending = append(s.pending, tickRow{RunID: s.runID, TickRecord: r})
	if len(s.pending) >= maxPendingTicks {
		return s.flush()
	}
	return nil
}

// RecordGeneration implements Sink and flushes buffered tick rows.
func (s *SQLiteSink) RecordGeneration(r GenerationRecord) error {
	if err := s.flush(); err != nil {
		return err
	}
	_, err := s.conn.NamedExec(`INSERT OR REPLACE INTO generations
		(run_id, generation, best_fitness, avg_fitness, median_fitness, std_fitness, nest_blocks, survivors)
		VALUES (:run_id, :generation, :best_fitness, :avg_fitness, :median_fitness, :std_fitness, :nest_blocks, :survivors)`,
		generationRow{RunID: s.runID, GenerationRecord: r},
	)
	if err != nil {
		return fmt.Errorf("insert generation %d: %w", r.Generation, err)
	}
	return nil
}

func (s *SQLiteSink) flush() error {
	if len(s.pending) == 0 {
		return nil
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamed(`INSERT OR REPLACE INTO tick_samples
		(run_id, step, generation, time_remaining, queen_health, avg_worker_health, alive_count, nest_blocks, mulch_consumed)
		VALUES (:run_id, :step, :generation, :time_remaining, :queen_health, :avg_worker_health, :alive_count, :nest_blocks, :mulch_consumed)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range s.pending {
		if _, err := stmt.Exec(row); err != nil {
			return fmt.Errorf("insert tick %d: %w", row.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.pending = s.pending[:0]
	return nil
}

// Generations returns the stored generation records for the sink's run.
func (s *SQLiteSink) Generations() ([]GenerationRecord, error) {
	var out []GenerationRecord
	err := s.conn.Select(&out,
		`SELECT generation, best_fitness, avg_fitness, median_fitness, std_fitness, nest_blocks, survivors
		FROM generations WHERE run_id = ? ORDER BY generation`,
		s.runID,
	)
	return out, err
}

// TickSamples returns the stored tick records for the sink's run.
func (s *SQLiteSink) TickSamples() ([]TickRecord, error) {
	var out []TickRecord
	err := s.conn.Select(&out,
		`SELECT step, generation, time_remaining, queen_health, avg_worker_health, alive_count, nest_blocks, mulch_consumed
		FROM tick_samples WHERE run_id = ? ORDER BY step`,
		s.runID,
	)
	return out, err
}

// Close flushes pending rows and closes the database.
func (s *SQLiteSink) Close() error {
	flushErr := s.flush()
	if err := s.conn.Close(); err != nil {
		return err
	}
	return flushErr
}
