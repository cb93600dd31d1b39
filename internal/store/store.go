// Package store records grading runs and their verdicts in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Verdict is one recorded grading result.
type Verdict struct {
	RunID        string
	Question     string
	Kind         string
	Valid        bool
	Correct      bool
	Disagreement bool
	Error        string
	Duration     time.Duration
	RecordedAt   time.Time
}

// Run is a grading run over one results file.
type Run struct {
	ID            string
	Source        string
	StartedAt     time.Time
	FinishedAt    sql.NullTime
	Total         int
	Valid         int
	Correct       int
	Errors        int
	Disagreements int
}

// Totals are the summary counts written when a run finishes.
type Totals struct {
	Total         int
	Valid         int
	Correct       int
	Errors        int
	Disagreements int
}

// Store is a SQLite-backed verdict store. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens or creates the database at path and ensures its schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger.With(zap.String("component", "store"))}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("verdict store opened", zap.String("path", path))
	return s, nil
}

func (s *Store) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("store: enable wal: %w", err)
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("store: insert schema version: %w", err)
	}

	var version int
	err := s.db.QueryRow(getSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: read schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("store: expected schema version %d, got %d", SchemaVersion, version)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun records the start of a run over source and returns its ID.
func (s *Store) StartRun(ctx context.Context, source string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, started_at) VALUES (?, ?, ?)`,
		id, source, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("store: start run: %w", err)
	}
	s.logger.Debug("run started", zap.String("run", id), zap.String("source", source))
	return id, nil
}

// RecordVerdict appends a verdict to its run.
func (s *Store) RecordVerdict(ctx context.Context, v Verdict) error {
	var errVal any
	if v.Error != "" {
		errVal = v.Error
	}
	recordedAt := v.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verdicts (
			run_id, question, kind, valid, correct, disagreement, error, duration_us, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.RunID, v.Question, v.Kind, v.Valid, v.Correct, v.Disagreement, errVal,
		v.Duration.Microseconds(), recordedAt,
	)
	if err != nil {
		return fmt.Errorf("store: record verdict for %q: %w", v.Question, err)
	}
	return nil
}

// FinishRun stamps the run as finished with its totals.
func (s *Store) FinishRun(ctx context.Context, runID string, t Totals) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, total = ?, valid = ?, correct = ?, errors = ?, disagreements = ?
		WHERE id = ?`,
		time.Now().UTC(), t.Total, t.Valid, t.Correct, t.Errors, t.Disagreements, runID,
	)
	if err != nil {
		return fmt.Errorf("store: finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("store: finish run: unknown run %s", runID)
	}
	return nil
}

// GetRun loads a run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, started_at, finished_at, total, valid, correct, errors, disagreements
		FROM runs WHERE id = ?`, runID,
	).Scan(&r.ID, &r.Source, &r.StartedAt, &r.FinishedAt, &r.Total, &r.Valid, &r.Correct, &r.Errors, &r.Disagreements)
	if err != nil {
		return Run{}, fmt.Errorf("store: get run %s: %w", runID, err)
	}
	return r, nil
}

// Verdicts lists the verdicts of a run in recording order.
func (s *Store) Verdicts(ctx context.Context, runID string) ([]Verdict, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, question, kind, valid, correct, disagreement, error, duration_us, recorded_at
		FROM verdicts WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: list verdicts: %w", err)
	}
	defer rows.Close()

	var out []Verdict
	for rows.Next() {
		var (
			v          Verdict
			errText    sql.NullString
			durationUS int64
		)
		if err := rows.Scan(&v.RunID, &v.Question, &v.Kind, &v.Valid, &v.Correct, &v.Disagreement,
			&errText, &durationUS, &v.RecordedAt); err != nil {
			return nil, fmt.Errorf("store: scan verdict: %w", err)
		}
		v.Error = errText.String
		v.Duration = time.Duration(durationUS) * time.Microsecond
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list verdicts: %w", err)
	}
	return out, nil
}
