package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/revmatrix/internal/matrix"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	Issue      string
	Formats    string
	Document   string
	Create     bool
	Extensions []string
	Database   string
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync <folder>",
		Short: "Record the latest revisions in the transmittal matrix",
		Long: `Scan a drawings folder and write the highest revision of every drawing
into today's issue column of the transmittal document.

The document is --doc, or else the folder's Transmittal_Template.ods, or
else its first .ods file. With --create a missing document is created from
the built-in template. The document is only saved when the sync succeeds.

Example:
  revmatrix sync ./drawings --issue TP --formats "PDF, DWG"
  revmatrix sync ./drawings --issue REV --formats PDF --doc register.csv --create`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Issue, "issue", "", "issue code, e.g. TP, REV, FC (required)")
	cmd.Flags().StringVar(&opts.Formats, "formats", "", `issued formats, e.g. "PDF, DWG" (required)`)
	cmd.Flags().StringVar(&opts.Document, "doc", "", "transmittal document (.ods or .csv)")
	cmd.Flags().BoolVar(&opts.Create, "create", false, "create the document from the template if missing")
	cmd.Flags().StringSliceVar(&opts.Extensions, "ext", nil, "file extensions to scan (default from config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite ledger")
	_ = cmd.MarkFlagRequired("issue")
	_ = cmd.MarkFlagRequired("formats")

	return cmd
}

func runSync(opts *SyncOptions, folder string, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("ext") {
		s.cfg.Matrix.Extensions = opts.Extensions
	}

	issue, err := matrix.NewIssue(opts.Issue, opts.Formats)
	if err != nil {
		return fail(s.out, ExitCommandError, CodeConfig, "invalid issue", err, nil)
	}

	syncer, err := s.synchronizer()
	if err != nil {
		return err
	}

	path, err := documentPath(opts.Document, folder, s.cfg.Matrix.TemplateName)
	if err != nil {
		return fail(s.out, ExitCommandError, CodeFolder, "failed to read folder", err, nil)
	}

	st, err := openLedger(s, opts.Database)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	rep, err := syncer.SyncFile(path, folder, issue, opts.Create)
	if err != nil {
		code, errCode, message := classifySyncError(err)
		return reportSync(s.out, rep, "", &ExitError{Code: code, Message: message, Err: err}, errCode)
	}

	runID := ""
	if st != nil {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		runID, err = recordSync(ctx, st, opts.RootOptions, folder, rep)
		if err != nil {
			return reportSync(s.out, rep, "", &ExitError{
				Code: ExitCommandError, Message: "failed to record run", Err: err,
			}, CodeLedger)
		}
		s.logger.Info("run recorded", "run_id", runID, "db", opts.Database)
	}

	return reportSync(s.out, rep, runID, nil, "")
}

// documentPath resolves the transmittal document of folder. An explicit
// path wins; otherwise the template name, then the first .ods file. When
// the folder has none, the template name is returned for --create.
func documentPath(explicit, folder, templateName string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	path, ok, err := matrix.FindDocument(folder, templateName)
	if err != nil {
		return "", err
	}
	if !ok {
		return filepath.Join(folder, templateName), nil
	}
	return path, nil
}

// reportSync writes rep, which may be nil when the document could not be
// opened, followed by exitErr if any.
func reportSync(out *OutputFormatter, rep *matrix.Report, runID string, exitErr *ExitError, errCode string) error {
	if out.Format == "json" {
		resp := CLIResponse{Status: "ok", RunID: runID}
		if rep != nil {
			resp.Data = rep
		}
		if exitErr != nil {
			resp.Status = "error"
			resp.Error = &CLIError{Code: errCode, Message: exitErr.Error()}
		}
		if err := writeJSON(out.Writer, resp); err != nil {
			return err
		}
	} else {
		if rep != nil {
			writeSyncText(out.Writer, rep)
		}
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

func writeSyncText(w io.Writer, rep *matrix.Report) {
	if rep.Document != "" {
		state := "existing"
		if rep.DocumentCreated {
			state = "created"
		}
		fmt.Fprintf(w, "Document: %s (%s)\n", filepath.Base(rep.Document), state)
	}
	if rep.Column >= 0 {
		state := "existing"
		if rep.ColumnCreated {
			state = "created"
		}
		fmt.Fprintf(w, "Issue: %s %s in column %d (%s)\n", rep.Label, rep.Meta, rep.Column, state)
	}

	var added, updated []string
	for _, e := range rep.Entries {
		line := fmt.Sprintf("%s %s", e.BaseName, e.Revision)
		if e.Action == matrix.ActionAdded {
			added = append(added, line)
		} else {
			updated = append(updated, line)
		}
	}
	writeSection(w, "Added", added)
	writeSection(w, "Updated", updated)
	writeSection(w, "Unrevisioned", rep.Unrevisioned)
	writeSection(w, "Unrecognized", rep.Unrecognized)
}
