package ident

import (
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// Built-in pattern sets.
var (
	// GroupingPatterns recognize revisioned drawings first and fall back to
	// unrevisioned ones, whose whole stem becomes the base name.
	GroupingPatterns = []string{
		`^(.+)[_.-]([A-Z])\.(pdf|dwg|dxf)$`,
		`^(.+)\.(?:pdf|dwg|dxf)$`,
	}

	// MatrixPatterns are stricter: base name, revision letter and format
	// are all required.
	MatrixPatterns = []string{
		`^(.+)[_.-]([A-Z])\.(pdf|dwg|dxf)$`,
	}
)

// Pattern is a compiled filename pattern.
type Pattern struct {
	Source string
	re     *regexp.Regexp
	groups int
}

// Groups returns the number of capture groups the pattern declares.
func (p Pattern) Groups() int {
	return p.groups
}

// Compile compiles one pattern case-insensitively.
// A pattern that fails to compile or has no capture groups returns a
// *PatternCompileError with Index 0.
func Compile(source string) (Pattern, error) {
	expr := source
	if !strings.HasPrefix(expr, "(?i)") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, &PatternCompileError{Source: source, Err: err}
	}
	if re.NumSubexp() == 0 {
		return Pattern{}, &PatternCompileError{Source: source, Err: ErrNoCaptureGroups}
	}
	return Pattern{Source: source, re: re, groups: re.NumSubexp()}, nil
}

// CompileAll compiles sources in order, skipping the ones that fail.
// Skipped patterns are logged at warn level and returned as errors; the
// surviving patterns keep their relative order.
func CompileAll(sources []string, logger *slog.Logger) ([]Pattern, []error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	patterns := make([]Pattern, 0, len(sources))
	var errs []error
	for i, src := range sources {
		p, err := Compile(src)
		if err != nil {
			if pe, ok := err.(*PatternCompileError); ok {
				pe.Index = i
			}
			logger.Warn("skipping pattern", "index", i, "pattern", src, "error", err)
			errs = append(errs, err)
			continue
		}
		patterns = append(patterns, p)
	}
	return patterns, errs
}

// MustCompileAll compiles sources and panics if any of them is invalid.
// Intended for built-in pattern sets.
func MustCompileAll(sources []string) []Pattern {
	patterns, errs := CompileAll(sources, nil)
	if len(errs) > 0 {
		panic(errs[0])
	}
	return patterns
}

// Ordered concatenates built-in and custom pattern sources.
// Built-ins come first unless customFirst is set.
func Ordered(builtins, custom []string, customFirst bool) []string {
	out := make([]string, 0, len(builtins)+len(custom))
	if customFirst {
		out = append(out, custom...)
		return append(out, builtins...)
	}
	out = append(out, builtins...)
	return append(out, custom...)
}

// match applies the pattern anchored at the start of name.
func (p Pattern) match(name string) (base, revision, format string, ok bool) {
	loc := p.re.FindStringSubmatchIndex(name)
	if loc == nil || loc[0] != 0 {
		return "", "", "", false
	}
	group := func(n int) string {
		if n > p.groups || loc[2*n] < 0 {
			return ""
		}
		return name[loc[2*n]:loc[2*n+1]]
	}
	base = group(1)
	if base == "" {
		return "", "", "", false
	}
	if p.groups >= 2 {
		revision = group(2)
	}
	if p.groups >= 3 {
		format = group(3)
	}
	return base, revision, format, true
}
