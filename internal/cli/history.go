package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/revmatrix/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// RunHistory is one run with its recorded rows, for JSON output.
type RunHistory struct {
	store.Run
	Moves        []store.Move       `json:"moves,omitempty"`
	IssueEntries []store.IssueEntry `json:"issue_entries,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs recorded in a ledger",
		Long: `List the clean and sync runs recorded with --db, oldest first, with the
files each clean run kept, moved or failed to move and the drawing rows each
sync run wrote.

Example:
  revmatrix history --db runs.db
  revmatrix history --db runs.db --run 0190a1b2-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Opening would create an empty ledger; a typo should fail instead.
	if _, err := os.Stat(opts.Database); errors.Is(err, fs.ErrNotExist) {
		return fail(out, ExitCommandError, CodeLedger, fmt.Sprintf("ledger not found: %s", opts.Database), nil, nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return fail(out, ExitCommandError, CodeLedger, "failed to open ledger", err, nil)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	history, err := loadHistory(ctx, st, opts.RunID)
	if err != nil {
		return fail(out, ExitCommandError, CodeLedger, "failed to read ledger", err, nil)
	}

	if opts.Format == "json" {
		return writeJSON(out.Writer, CLIResponse{Status: "ok", Data: history})
	}
	writeHistoryText(out.Writer, history)
	return nil
}

func loadHistory(ctx context.Context, st *store.Store, runID string) ([]RunHistory, error) {
	var runs []store.Run
	if runID != "" {
		run, err := st.ReadRun(ctx, runID)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		runs = []store.Run{run}
	} else {
		var err error
		runs, err = st.ListRuns(ctx)
		if err != nil {
			return nil, err
		}
	}

	history := make([]RunHistory, 0, len(runs))
	for _, run := range runs {
		h := RunHistory{Run: run}
		switch run.Kind {
		case store.RunClean:
			moves, err := st.ReadMoves(ctx, run.ID)
			if err != nil {
				return nil, err
			}
			h.Moves = moves
		case store.RunSync:
			entries, err := st.ReadIssueEntries(ctx, run.ID)
			if err != nil {
				return nil, err
			}
			h.IssueEntries = entries
		}
		history = append(history, h)
	}
	return history, nil
}

func writeHistoryText(w io.Writer, history []RunHistory) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, h := range history {
		fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
			h.ID, h.Kind, h.StartedAt.Format(time.RFC3339), h.Folder, formatSummary(h.Summary))
		for _, m := range h.Moves {
			line := fmt.Sprintf("  %s %s (%s)", m.Outcome, m.Filename, m.BaseName)
			if m.Detail != "" {
				line += ": " + m.Detail
			}
			fmt.Fprintln(w, line)
		}
		for _, e := range h.IssueEntries {
			fmt.Fprintf(w, "  %s %s %s  %s %s\n", e.Action, e.BaseName, e.Revision, e.IssueLabel, e.IssueMeta)
		}
	}
}

// formatSummary renders summary counts as key=value pairs in key order.
func formatSummary(summary map[string]int) string {
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, summary[k]))
	}
	return strings.Join(parts, " ")
}
