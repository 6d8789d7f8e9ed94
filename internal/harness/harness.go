package harness

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/roach88/revmatrix/internal/grid"
	"github.com/roach88/revmatrix/internal/ident"
	"github.com/roach88/revmatrix/internal/matrix"
	"github.com/roach88/revmatrix/internal/revision"
	"github.com/roach88/revmatrix/internal/testutil"
)

// Error kinds a step may declare in expect_error.
const (
	errNoRecognizedFiles = "no_recognized_files"
	errHeaderNotFound    = "header_not_found"
	errNoDocument        = "no_document"
	errHoldingFolder     = "holding_folder"
)

// Run executes a scenario in a fresh temporary folder and returns the
// result. The folder is removed afterwards.
//
// An error is returned only for problems with the scenario itself (fixture
// setup, unparseable patterns); step and assertion failures are reported
// through Result.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "revmatrix-scenario-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario folder: %w", err)
	}
	defer os.RemoveAll(dir)

	return RunIn(scenario, dir)
}

// RunIn executes a scenario in dir, which should be empty.
func RunIn(scenario *Scenario, dir string) (*Result, error) {
	if err := writeFixtures(dir, scenario.Files); err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(scenario.Documents) {
		doc := &grid.Document{Sheets: []*grid.Sheet{{
			Name: grid.DefaultSheetName,
			Grid: grid.New(scenario.Documents[name]),
		}}}
		if err := grid.Save(filepath.Join(dir, name), doc); err != nil {
			return nil, fmt.Errorf("failed to write document %s: %w", name, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	result := NewResult()
	var report strings.Builder
	fmt.Fprintf(&report, "scenario: %s\n", scenario.Name)

	for i, step := range scenario.Steps {
		if err := writeFixtures(dir, step.AddFiles); err != nil {
			return nil, err
		}

		fmt.Fprintf(&report, "step %d: %s\n", i+1, step.Action)
		var sr StepResult
		var stepErr error
		switch step.Action {
		case ActionClean:
			sr, stepErr = runClean(step, dir, logger, &report)
		case ActionSync:
			sr, stepErr = runSync(step, dir, logger, &report)
		}
		if stepErr != nil && sr.Action == "" {
			return nil, fmt.Errorf("step %d: %w", i+1, stepErr)
		}
		result.Steps = append(result.Steps, sr)

		if sr.Error != "" {
			fmt.Fprintf(&report, "  error: %s\n", sr.Error)
		}
		if sr.Error != step.ExpectError {
			if step.ExpectError == "" {
				result.AddError(fmt.Sprintf("step %d: unexpected error: %v", i+1, stepErr))
			} else {
				result.AddError(fmt.Sprintf("step %d: expected error %s, got %q", i+1, step.ExpectError, sr.Error))
			}
			if sr.Error != "" {
				break
			}
		}
	}

	if err := writeFolder(&report, dir); err != nil {
		return nil, err
	}
	if err := writeDocuments(&report, dir); err != nil {
		return nil, err
	}
	result.Report = report.String()

	for _, msg := range EvaluateAssertions(result, dir, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// runClean groups the folder and moves superseded files into the holding
// folder. A returned error with an empty StepResult.Action is fatal.
func runClean(step Step, dir string, logger *slog.Logger, report *strings.Builder) (StepResult, error) {
	sources := ident.Ordered(ident.GroupingPatterns, step.Patterns, step.CustomFirst)
	patterns, errs := ident.CompileAll(sources, logger)
	if len(errs) > 0 {
		return StepResult{}, errors.Join(errs...)
	}

	exts := step.Extensions
	if len(exts) == 0 {
		exts = matrix.DefaultExtensions
	}
	filter := ident.All(ident.ExtensionFilter(exts...), ident.PrefixFilter(step.Prefix))

	sr := StepResult{Action: ActionClean}
	plan, err := revision.PlanFolder(dir, ident.NewMatcher(patterns, logger), filter)
	if errors.Is(err, revision.ErrNoRecognizedFiles) {
		sr.Error = errorKind(err)
		sr.Unrecognized = plan.Unrecognized
		writeList(report, "unrecognized", sr.Unrecognized)
		return sr, err
	}
	if err != nil {
		return StepResult{}, err
	}
	sr.Unrecognized = plan.Unrecognized

	groups := plan.Groups
	if len(step.Only) > 0 {
		groups = revision.Select(groups, step.Only)
	}

	holding := step.HoldingFolder
	if holding == "" {
		holding = revision.DefaultHoldingFolder
	}
	res, err := revision.Apply(groups, dir, holding, logger)
	if err != nil {
		sr.Error = errorKind(err)
		writeList(report, "unrecognized", sr.Unrecognized)
		return sr, err
	}
	sr.Moved = res.Moved
	sr.Kept = res.Kept

	fmt.Fprintf(report, "  holding: %s (%s)\n", filepath.Base(res.HoldingFolder), res.HoldingAction)
	for _, g := range groups {
		if g.Ambiguous {
			fmt.Fprintf(report, "  ambiguous: %s\n", g.BaseName)
		}
	}
	writeList(report, "moved", res.Moved)
	writeList(report, "kept", res.Kept)
	for _, f := range res.Failed {
		fmt.Fprintf(report, "  failed: %s (%s)\n", f.Filename, f.Kind)
	}
	writeList(report, "unrecognized", sr.Unrecognized)
	return sr, nil
}

// runSync records the folder's drawings in its matrix document.
func runSync(step Step, dir string, logger *slog.Logger, report *strings.Builder) (StepResult, error) {
	date, err := time.Parse(stepDateLayout, step.Date)
	if err != nil {
		return StepResult{}, err
	}
	issue, err := matrix.NewIssue(step.Issue, step.Formats)
	if err != nil {
		return StepResult{}, err
	}

	opts := []matrix.Option{
		matrix.WithClock(testutil.NewFixedClock(date).Now),
		matrix.WithLogger(logger),
	}
	if len(step.Patterns) > 0 {
		m, errs := ident.NewMatcherFromSources(step.Patterns, logger)
		if len(errs) > 0 {
			return StepResult{}, errors.Join(errs...)
		}
		opts = append(opts, matrix.WithMatcher(m))
	}
	if len(step.Extensions) > 0 {
		opts = append(opts, matrix.WithExtensions(step.Extensions...))
	}
	s := matrix.New(opts...)

	path, err := documentPath(dir, step.Document)
	if err != nil {
		return StepResult{}, err
	}

	sr := StepResult{Action: ActionSync}
	fmt.Fprintf(report, "  issue: %s %s\n", s.Label(), issue.Meta())
	rep, err := s.SyncFile(path, dir, issue, step.Create)
	if rep != nil {
		sr.Unrecognized = rep.Unrecognized
		if rep.Column >= 0 {
			state := "existing"
			if rep.ColumnCreated {
				state = "created"
			}
			fmt.Fprintf(report, "  column: %d (%s)\n", rep.Column, state)
		}
		for _, e := range rep.Entries {
			fmt.Fprintf(report, "  %s: %s %s\n", e.Action, e.BaseName, e.Revision)
		}
		writeList(report, "unrevisioned", rep.Unrevisioned)
		writeList(report, "unrecognized", rep.Unrecognized)
	}
	if err != nil {
		sr.Error = errorKind(err)
		return sr, err
	}
	return sr, nil
}

// documentPath resolves the matrix document of a sync step. An empty name
// finds the folder's document the same way the command line does.
func documentPath(dir, name string) (string, error) {
	if name != "" {
		return filepath.Join(dir, name), nil
	}
	path, ok, err := matrix.FindDocument(dir, matrix.DefaultTemplateName)
	if err != nil {
		return "", err
	}
	if !ok {
		return filepath.Join(dir, matrix.DefaultTemplateName), nil
	}
	return path, nil
}

// errorKind maps a workflow error to its scenario name.
func errorKind(err error) string {
	var hfe *revision.HoldingFolderError
	switch {
	case errors.Is(err, matrix.ErrNoRecognizedFiles), errors.Is(err, revision.ErrNoRecognizedFiles):
		return errNoRecognizedFiles
	case grid.IsHeaderNotFound(err):
		return errHeaderNotFound
	case errors.Is(err, matrix.ErrNoDocument):
		return errNoDocument
	case errors.As(err, &hfe):
		return errHoldingFolder
	default:
		return "error"
	}
}

func writeFixtures(dir string, names []string) error {
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create fixture folder: %w", err)
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			return fmt.Errorf("failed to write fixture %s: %w", name, err)
		}
	}
	return nil
}

func writeList(b *strings.Builder, label string, names []string) {
	for _, n := range names {
		fmt.Fprintf(b, "  %s: %s\n", label, n)
	}
}

// writeFolder lists every path under dir, folders with a trailing slash.
func writeFolder(b *strings.Builder, dir string) error {
	paths, err := listTree(dir)
	if err != nil {
		return err
	}
	b.WriteString("folder:\n")
	for _, p := range paths {
		fmt.Fprintf(b, "  %s\n", p)
	}
	return nil
}

func listTree(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			rel += "/"
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list scenario folder: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// writeDocuments renders every matrix document at the top of dir from its
// date row down.
func writeDocuments(b *strings.Builder, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read scenario folder: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := grid.FormatOf(e.Name()); err != nil {
			continue
		}
		doc, err := grid.Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		g := doc.Grid()
		start := 0
		if h, err := g.FindHeaderRows(); err == nil {
			start = h.Date
		}
		fmt.Fprintf(b, "document %s:\n", e.Name())
		for _, row := range g.Rows[start:] {
			fmt.Fprintf(b, "%s\n", strings.TrimRight("  "+strings.Join(row, " | "), " "))
		}
	}
	return nil
}

func sortedKeys(m map[string][][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
