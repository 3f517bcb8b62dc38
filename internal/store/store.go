// Package store records inference runs in a sqlite database so that
// results can be compared across versions of a scenario.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/typeinfer/internal/scenario"
)

// RunRecord is one evaluated call.
type RunRecord struct {
	RunID            uuid.UUID
	Scenario         string
	Call             string
	Success          bool
	FromFunctionType bool
	// Types maps each type parameter to its rendered inferred type.
	Types      map[string]string
	Error      string
	RecordedAt time.Time
}

// Store is a sqlite-backed run history. It is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	insert *sql.Stmt
	now    func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id             TEXT NOT NULL UNIQUE,
	scenario           TEXT NOT NULL,
	call               TEXT NOT NULL,
	success            INTEGER NOT NULL,
	from_function_type INTEGER NOT NULL,
	types              TEXT NOT NULL,
	error              TEXT,
	recorded_at        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario, recorded_at);
`

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening run store %s: %w", path, err)
	}
	// sqlite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing run store %s: %w", path, err)
	}
	insert, err := db.Prepare(`
		INSERT INTO runs (run_id, scenario, call, success, from_function_type, types, error, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing run store %s: %w", path, err)
	}
	return &Store{db: db, insert: insert, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.insert.Close(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

// RecordRun stores one record. A zero RecordedAt is set to the current
// time.
func (s *Store) RecordRun(ctx context.Context, r RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(ctx, s.insert, r)
}

// RecordOutcomes stores every outcome in a single transaction.
func (s *Store) RecordOutcomes(ctx context.Context, outcomes []scenario.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt := tx.StmtContext(ctx, s.insert)
	for _, o := range outcomes {
		if err := s.record(ctx, stmt, FromOutcome(o)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) record(ctx context.Context, stmt *sql.Stmt, r RunRecord) error {
	if r.RunID == uuid.Nil {
		r.RunID = uuid.New()
	}
	if r.RecordedAt.IsZero() {
		r.RecordedAt = s.now()
	}
	types, err := json.Marshal(r.Types)
	if err != nil {
		return fmt.Errorf("encoding types of %s: %w", r.Call, err)
	}
	var errText any
	if r.Error != "" {
		errText = r.Error
	}
	_, err = stmt.ExecContext(ctx,
		r.RunID.String(), r.Scenario, r.Call, r.Success, r.FromFunctionType,
		string(types), errText, r.RecordedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("recording %s/%s: %w", r.Scenario, r.Call, err)
	}
	return nil
}

// Runs returns the records of a scenario, oldest first. An empty name
// returns every record.
func (s *Store) Runs(ctx context.Context, scenarioName string) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT run_id, scenario, call, success, from_function_type, types, error, recorded_at FROM runs`
	var args []any
	if scenarioName != "" {
		query += ` WHERE scenario = ?`
		args = append(args, scenarioName)
	}
	query += ` ORDER BY recorded_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			r        RunRecord
			runID    string
			types    string
			errText  sql.NullString
			recorded int64
		)
		if err := rows.Scan(&runID, &r.Scenario, &r.Call, &r.Success, &r.FromFunctionType, &types, &errText, &recorded); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.RunID, err = uuid.Parse(runID); err != nil {
			return nil, fmt.Errorf("run id %q: %w", runID, err)
		}
		if err := json.Unmarshal([]byte(types), &r.Types); err != nil {
			return nil, fmt.Errorf("types of run %s: %w", runID, err)
		}
		r.Error = errText.String
		r.RecordedAt = time.Unix(0, recorded)
		out = append(out, r)
	}
	return out, rows.Err()
}

// FromOutcome converts an evaluated call into a record carrying the run
// id of its inference.
func FromOutcome(o scenario.Outcome) RunRecord {
	r := RunRecord{
		RunID:            o.Result.RunID,
		Scenario:         o.Scenario,
		Call:             o.Call.Name,
		Success:          o.Result.Success,
		FromFunctionType: o.Result.HasTypeVariableInferredFromFunctionType,
		Types:            make(map[string]string, len(o.Call.TypeParams)),
	}
	for i, tp := range o.Call.TypeParams {
		r.Types[tp.Name] = o.TypeArgs[i].String()
	}
	if o.Err != nil {
		r.Error = o.Err.Error()
	}
	return r
}
