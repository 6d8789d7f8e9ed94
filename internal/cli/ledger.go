package cli

import (
	"context"
	"path/filepath"

	"github.com/roach88/revmatrix/internal/matrix"
	"github.com/roach88/revmatrix/internal/revision"
	"github.com/roach88/revmatrix/internal/store"
)

// openLedger opens the ledger named by --db and must be called before any
// file is moved or document saved. An empty path returns a nil store.
func openLedger(s *session, dbPath string) (*store.Store, error) {
	if dbPath == "" {
		return nil, nil
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fail(s.out, ExitCommandError, CodeLedger, "failed to open ledger", err, nil)
	}
	return st, nil
}

// recordClean writes a clean run to st and returns its ID.
// Kept files are recorded per group, followed by their superseded members.
func recordClean(ctx context.Context, st *store.Store, opts *RootOptions, folder string, groups []revision.ResolvedGroup, res *revision.Result) (string, error) {
	run := store.NewRun(opts.runIDs(), store.RunClean, absPath(folder), opts.now())
	if err := st.BeginRun(ctx, run); err != nil {
		return "", err
	}

	moved := make(map[string]bool, len(res.Moved))
	for _, f := range res.Moved {
		moved[f] = true
	}
	failed := make(map[string]*revision.MoveError, len(res.Failed))
	for _, f := range res.Failed {
		failed[f.Filename] = f
	}

	var moves []store.Move
	for _, g := range groups {
		moves = append(moves, store.Move{BaseName: g.BaseName, Filename: g.Keep.Filename, Outcome: store.OutcomeKept})
		for _, m := range g.Supersede {
			switch {
			case moved[m.Filename]:
				moves = append(moves, store.Move{BaseName: g.BaseName, Filename: m.Filename, Outcome: store.OutcomeMoved})
			case failed[m.Filename] != nil:
				moves = append(moves, store.Move{
					BaseName: g.BaseName,
					Filename: m.Filename,
					Outcome:  store.OutcomeFailed,
					Detail:   string(failed[m.Filename].Kind),
				})
			}
		}
	}
	if err := st.RecordMoves(ctx, run.ID, moves); err != nil {
		return "", err
	}

	summary := map[string]int{
		"kept":   len(res.Kept),
		"moved":  len(res.Moved),
		"failed": len(res.Failed),
	}
	if err := st.FinishRun(ctx, run.ID, summary); err != nil {
		return "", err
	}
	return run.ID, nil
}

// recordSync writes a successful sync run to st and returns its ID.
func recordSync(ctx context.Context, st *store.Store, opts *RootOptions, folder string, rep *matrix.Report) (string, error) {
	run := store.NewRun(opts.runIDs(), store.RunSync, absPath(folder), opts.now())
	if err := st.BeginRun(ctx, run); err != nil {
		return "", err
	}

	entries := make([]store.IssueEntry, 0, len(rep.Entries))
	for _, e := range rep.Entries {
		entries = append(entries, store.IssueEntry{
			IssueLabel: rep.Label,
			IssueMeta:  rep.Meta,
			BaseName:   e.BaseName,
			Revision:   e.Revision,
			Action:     string(e.Action),
		})
	}
	if err := st.RecordIssue(ctx, run.ID, entries); err != nil {
		return "", err
	}

	summary := map[string]int{
		"added":        rep.Count(matrix.ActionAdded),
		"updated":      rep.Count(matrix.ActionUpdated),
		"unrecognized": len(rep.Unrecognized),
	}
	if err := st.FinishRun(ctx, run.ID, summary); err != nil {
		return "", err
	}
	return run.ID, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
