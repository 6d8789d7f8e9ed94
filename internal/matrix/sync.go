package matrix

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/revmatrix/internal/grid"
	"github.com/roach88/revmatrix/internal/ident"
)

// ErrNoRecognizedFiles is returned when a folder yields no drawing with a
// revision. The grid is left untouched.
var ErrNoRecognizedFiles = errors.New("no recognized drawing files")

// DefaultDateFormat formats the issue label.
const DefaultDateFormat = "2006-01-02"

// DefaultExtensions are the drawing formats scanned by default.
var DefaultExtensions = []string{".pdf", ".dwg", ".dxf"}

// Synchronizer writes the drawings of a folder into a transmittal grid.
type Synchronizer struct {
	matcher    *ident.Matcher
	filter     ident.Filter
	now        func() time.Time
	dateFormat string
	logger     *slog.Logger
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithMatcher replaces the default matcher over ident.MatrixPatterns.
func WithMatcher(m *ident.Matcher) Option {
	return func(s *Synchronizer) {
		s.matcher = m
	}
}

// WithExtensions restricts the scan to the given extensions.
func WithExtensions(exts ...string) Option {
	return func(s *Synchronizer) {
		s.filter = ident.ExtensionFilter(exts...)
	}
}

// WithClock sets the source of today's date.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		s.now = now
	}
}

// WithDateFormat sets the time layout of the issue label.
func WithDateFormat(layout string) Option {
	return func(s *Synchronizer) {
		s.dateFormat = layout
	}
}

// WithLogger sets the logger for per-drawing events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// New creates a Synchronizer. Defaults: ident.MatrixPatterns, the
// DefaultExtensions filter, time.Now and DefaultDateFormat.
func New(opts ...Option) *Synchronizer {
	s := &Synchronizer{
		filter:     ident.ExtensionFilter(DefaultExtensions...),
		now:        time.Now,
		dateFormat: DefaultDateFormat,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.matcher == nil {
		s.matcher = ident.NewMatcher(ident.MustCompileAll(ident.MatrixPatterns), s.logger)
	}
	return s
}

// Label returns today's issue label.
func (s *Synchronizer) Label() string {
	return s.now().Format(s.dateFormat)
}

// Synchronize records the drawings of folder under today's issue column of
// g. Missing header rows and an empty scan both fail before g is modified;
// in the second case the returned report still lists what was skipped.
func (s *Synchronizer) Synchronize(g *grid.Grid, folder string, issue Issue) (*Report, error) {
	h, err := g.FindHeaderRows()
	if err != nil {
		return nil, err
	}

	scan, err := s.ScanFolder(folder)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	report := &Report{
		Label:        s.Label(),
		Meta:         issue.Meta(),
		Column:       -1,
		Entries:      []Entry{},
		Unrecognized: scan.Unrecognized,
		Unrevisioned: scan.Unrevisioned,
	}
	if len(scan.Drawings) == 0 {
		s.logger.Warn("no valid drawing files found", "folder", folder)
		return report, ErrNoRecognizedFiles
	}

	col, created := g.FindOrCreateIssueColumn(h, report.Label, report.Meta)
	report.Column = col
	report.ColumnCreated = created
	if created {
		s.logger.Info("created issue column", "label", report.Label, "column", col)
	} else {
		s.logger.Info("using existing issue column", "label", report.Label, "column", col)
	}

	rows := g.DrawingRows(h)
	for _, d := range scan.Drawings {
		entry := Entry{BaseName: d.BaseName, Revision: d.Revision, Filename: d.Filename}
		if r, ok := rows[d.BaseName]; ok {
			g.UpsertCell(r, col, d.Revision)
			entry.Action = ActionUpdated
		} else {
			rows[d.BaseName] = g.AppendDrawingRow(h, d.BaseName, col, d.Revision)
			entry.Action = ActionAdded
		}
		s.logger.Info("recorded revision", "base", d.BaseName, "revision", d.Revision, "action", entry.Action)
		report.Entries = append(report.Entries, entry)
	}
	return report, nil
}
