package ident

import (
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Match returns the identity produced by the first pattern that matches
// filename, or false when none does.
func Match(filename string, patterns []Pattern) (Identity, bool) {
	name := norm.NFC.String(filename)
	for _, p := range patterns {
		base, rev, format, ok := p.match(name)
		if !ok {
			continue
		}
		id := Identity{
			Filename: filename,
			BaseName: base,
			Revision: strings.ToUpper(rev),
			Format:   ParseFormat(format),
		}
		if format == "" {
			id.Format = formatFromFilename(name)
		}
		return id, true
	}
	return Identity{}, false
}

// Matcher applies an ordered pattern list and logs unrecognized names.
type Matcher struct {
	patterns []Pattern
	logger   *slog.Logger
}

// NewMatcher creates a matcher over already compiled patterns.
func NewMatcher(patterns []Pattern, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Matcher{patterns: patterns, logger: logger}
}

// NewMatcherFromSources compiles sources and returns a matcher over the
// patterns that compiled. Errors for skipped patterns are returned alongside.
func NewMatcherFromSources(sources []string, logger *slog.Logger) (*Matcher, []error) {
	patterns, errs := CompileAll(sources, logger)
	return NewMatcher(patterns, logger), errs
}

// Patterns returns the matcher's patterns in match order.
func (m *Matcher) Patterns() []Pattern {
	return m.patterns
}

// Match identifies a single filename.
func (m *Matcher) Match(filename string) (Identity, bool) {
	id, ok := Match(filename, m.patterns)
	if !ok {
		m.logger.Info("unrecognized filename", "file", filename)
	}
	return id, ok
}

// Classify matches every filename that passes filter.
// Names rejected by the filter are ignored; names that pass it but match no
// pattern are returned as unrecognized. Output order follows input order.
func (m *Matcher) Classify(filenames []string, filter Filter) (ids []Identity, unrecognized []string) {
	for _, name := range filenames {
		if filter != nil && !filter(name) {
			continue
		}
		id, ok := m.Match(name)
		if !ok {
			unrecognized = append(unrecognized, name)
			continue
		}
		ids = append(ids, id)
	}
	return ids, unrecognized
}
