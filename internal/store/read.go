package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ListRuns returns every run, oldest first.
// Ordering: ORDER BY started_at ASC, id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if the ledger is empty.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, folder, started_at, summary
		FROM runs
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, folder, started_at, summary
		FROM runs
		WHERE id = ?
	`, id)
	return scanRun(row)
}

// ReadMoves returns the files of a clean run in seq order.
//
// Returns an empty slice (not nil) if the run recorded none.
func (s *Store) ReadMoves(ctx context.Context, runID string) ([]Move, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, base_name, filename, outcome, detail
		FROM moves
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	moves := []Move{}
	for rows.Next() {
		var m Move
		var outcome string
		if err := rows.Scan(&m.RunID, &m.Seq, &m.BaseName, &m.Filename, &outcome, &m.Detail); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		m.Outcome = Outcome(outcome)
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moves: %w", err)
	}
	return moves, nil
}

// ReadIssueEntries returns the drawing rows of a sync run in seq order.
//
// Returns an empty slice (not nil) if the run recorded none.
func (s *Store) ReadIssueEntries(ctx context.Context, runID string) ([]IssueEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, issue_label, issue_meta, base_name, revision, action
		FROM issue_entries
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query issue entries: %w", err)
	}
	defer rows.Close()

	entries := []IssueEntry{}
	for rows.Next() {
		var e IssueEntry
		if err := rows.Scan(&e.RunID, &e.Seq, &e.IssueLabel, &e.IssueMeta, &e.BaseName, &e.Revision, &e.Action); err != nil {
			return nil, fmt.Errorf("scan issue entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issue entries: %w", err)
	}
	return entries, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		kind      string
		startedAt string
		summary   string
	)
	if err := row.Scan(&run.ID, &kind, &run.Folder, &startedAt, &summary); err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Kind = RunKind(kind)

	var err error
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return Run{}, err
	}
	if run.Summary, err = unmarshalSummary(summary); err != nil {
		return Run{}, err
	}
	return run, nil
}
