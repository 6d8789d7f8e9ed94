package store

import (
	"context"
	"fmt"
)

// BeginRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	summary, err := marshalSummary(run.Summary)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, folder, started_at, summary)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		string(run.Kind),
		run.Folder,
		formatTime(run.StartedAt),
		summary,
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// FinishRun stores the final summary counts of a run.
func (s *Store) FinishRun(ctx context.Context, runID string, summary map[string]int) error {
	text, err := marshalSummary(summary)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE runs SET summary = ? WHERE id = ?`, text, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: unknown run %q", runID)
	}
	return nil
}

// RecordMoves inserts the files of a clean run in one transaction. Each
// move's seq is its 1-based position in moves; RunID is set to runID.
//
// Note: The run must exist (foreign key constraint).
func (s *Store) RecordMoves(ctx context.Context, runID string, moves []Move) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record moves: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for i, m := range moves {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO moves (run_id, seq, base_name, filename, outcome, detail)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, seq) DO NOTHING
		`,
			runID,
			int64(i+1),
			m.BaseName,
			m.Filename,
			string(m.Outcome),
			m.Detail,
		)
		if err != nil {
			return fmt.Errorf("record moves: insert %s: %w", m.Filename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record moves: commit: %w", err)
	}
	return nil
}

// RecordIssue inserts the drawing rows written by a sync run in one
// transaction. Seq and RunID are assigned as in RecordMoves.
func (s *Store) RecordIssue(ctx context.Context, runID string, entries []IssueEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record issue: begin tx: %w", err)
	}
	defer tx.Rollback()

	for i, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO issue_entries (run_id, seq, issue_label, issue_meta, base_name, revision, action)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, seq) DO NOTHING
		`,
			runID,
			int64(i+1),
			e.IssueLabel,
			e.IssueMeta,
			e.BaseName,
			e.Revision,
			e.Action,
		)
		if err != nil {
			return fmt.Errorf("record issue: insert %s: %w", e.BaseName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record issue: commit: %w", err)
	}
	return nil
}
