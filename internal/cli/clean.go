package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/revmatrix/internal/revision"
)

// CleanOptions holds flags for the clean command.
type CleanOptions struct {
	*RootOptions
	cleanFlags
	Database string
}

// CleanFailure describes one abandoned move in JSON output.
type CleanFailure struct {
	BaseName string `json:"base_name"`
	Filename string `json:"filename"`
	Kind     string `json:"kind"`
	Error    string `json:"error"`
}

// CleanOutput is the JSON payload of the clean command.
type CleanOutput struct {
	HoldingFolder string         `json:"holding_folder"`
	HoldingAction string         `json:"holding_action"`
	Moved         []string       `json:"moved"`
	Kept          []string       `json:"kept"`
	Failed        []CleanFailure `json:"failed"`
	Ambiguous     []string       `json:"ambiguous"`
	Unrecognized  []string       `json:"unrecognized"`
}

// NewCleanCommand creates the clean command.
func NewCleanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CleanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clean <folder>",
		Short: "Move superseded revisions into the holding folder",
		Long: `Group the drawings of a folder by base name, keep the highest revision of
each drawing and move every other revision into the holding folder.

The holding folder is found ignoring case and renamed to the canonical
spelling, or created. A move that cannot be made is reported and the
remaining moves still run.

Exit codes:
  0 - All moves made
  1 - One or more moves abandoned
  2 - Command error (unreadable folder, holding folder unavailable, etc.)

Example:
  revmatrix clean ./drawings
  revmatrix clean ./drawings --holding Archive --only TEST-001 --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(opts, args[0], cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite ledger")
	return cmd
}

func runClean(opts *CleanOptions, folder string, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	opts.apply(cmd, &s.cfg.Cleanup)

	plan, err := s.planFolder(folder, opts.Only)
	if err != nil {
		return err
	}

	st, err := openLedger(s, opts.Database)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	res, err := revision.Apply(plan.Groups, folder, s.cfg.Cleanup.HoldingFolder, s.logger)
	if err != nil {
		return fail(s.out, ExitCommandError, CodeHoldingFolder, "failed to resolve holding folder", err, nil)
	}

	runID := ""
	if st != nil {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		runID, err = recordClean(ctx, st, opts.RootOptions, folder, plan.Groups, res)
		if err != nil {
			// The moves already happened, so they are reported with the error.
			return reportClean(s.out, plan, res, "", &ExitError{
				Code: ExitCommandError, Message: "failed to record run", Err: err,
			}, CodeLedger)
		}
		s.logger.Info("run recorded", "run_id", runID, "db", opts.Database)
	}

	if len(res.Failed) > 0 {
		return reportClean(s.out, plan, res, runID, &ExitError{
			Code:    ExitFailure,
			Message: fmt.Sprintf("%d move(s) abandoned", len(res.Failed)),
			Err:     errors.Join(moveErrors(res)...),
		}, CodeMovesFailed)
	}
	return reportClean(s.out, plan, res, runID, nil, "")
}

func moveErrors(res *revision.Result) []error {
	errs := make([]error, 0, len(res.Failed))
	for _, f := range res.Failed {
		errs = append(errs, f)
	}
	return errs
}

// reportClean writes the outcome of a clean run followed by exitErr, if
// any, and returns exitErr marked as reported.
func reportClean(out *OutputFormatter, plan *revision.Plan, res *revision.Result, runID string, exitErr *ExitError, errCode string) error {
	var ambiguous []string
	for _, g := range plan.Groups {
		if g.Ambiguous {
			ambiguous = append(ambiguous, g.BaseName)
		}
	}

	if out.Format == "json" {
		failed := make([]CleanFailure, 0, len(res.Failed))
		for _, f := range res.Failed {
			failed = append(failed, CleanFailure{
				BaseName: f.BaseName,
				Filename: f.Filename,
				Kind:     string(f.Kind),
				Error:    f.Err.Error(),
			})
		}
		if ambiguous == nil {
			ambiguous = []string{}
		}
		resp := CLIResponse{
			Status: "ok",
			Data: CleanOutput{
				HoldingFolder: res.HoldingFolder,
				HoldingAction: string(res.HoldingAction),
				Moved:         res.Moved,
				Kept:          res.Kept,
				Failed:        failed,
				Ambiguous:     ambiguous,
				Unrecognized:  plan.Unrecognized,
			},
			RunID: runID,
		}
		if exitErr != nil {
			resp.Status = "error"
			resp.Error = &CLIError{Code: errCode, Message: exitErr.Error()}
		}
		if err := writeJSON(out.Writer, resp); err != nil {
			return err
		}
	} else {
		writeCleanText(out.Writer, plan, res, ambiguous)
		if runID != "" {
			fmt.Fprintf(out.Writer, "Run: %s\n", runID)
		}
		if exitErr != nil {
			_ = out.Error(errCode, exitErr.Error(), nil)
		}
	}

	if exitErr == nil {
		return nil
	}
	exitErr.reported = true
	return exitErr
}

func writeCleanText(w io.Writer, plan *revision.Plan, res *revision.Result, ambiguous []string) {
	fmt.Fprintf(w, "Holding folder: %s (%s)\n", filepath.Base(res.HoldingFolder), res.HoldingAction)
	writeSection(w, "Moved", res.Moved)
	writeSection(w, "Kept", res.Kept)
	failed := make([]string, 0, len(res.Failed))
	for _, f := range res.Failed {
		failed = append(failed, fmt.Sprintf("%s (%s)", f.Filename, f.Kind))
	}
	writeSection(w, "Failed", failed)
	if len(ambiguous) > 0 {
		writeSection(w, "Ambiguous", ambiguous)
	}
	writeSection(w, "Unrecognized", plan.Unrecognized)
}
