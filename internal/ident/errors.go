package ident

import (
	"errors"
	"fmt"
)

// ErrUnrecognized is reported for a filename that no pattern matches.
var ErrUnrecognized = errors.New("filename matches no pattern")

// ErrNoCaptureGroups marks a pattern that compiles but captures nothing.
var ErrNoCaptureGroups = errors.New("pattern has no capture groups")

// PatternCompileError describes a supplied pattern that was skipped.
type PatternCompileError struct {
	// Index is the position of the pattern in the list it was supplied in.
	Index int

	// Source is the pattern text as supplied.
	Source string

	// Err is the regexp compile error or ErrNoCaptureGroups.
	Err error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("pattern %d %q: %v", e.Index, e.Source, e.Err)
}

func (e *PatternCompileError) Unwrap() error {
	return e.Err
}

// IsPatternCompileError reports whether err is, or wraps, a PatternCompileError.
func IsPatternCompileError(err error) bool {
	var pe *PatternCompileError
	return errors.As(err, &pe)
}
