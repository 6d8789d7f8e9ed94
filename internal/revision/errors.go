package revision

import (
	"errors"
	"fmt"
)

// ErrNoRecognizedFiles is returned by PlanFolder when no file in the folder
// matches a pattern.
var ErrNoRecognizedFiles = errors.New("no files with valid revision patterns found")

// MoveErrorKind classifies why a single move was abandoned.
type MoveErrorKind string

const (
	// MoveMissingSource means the file was no longer in the source folder.
	MoveMissingSource MoveErrorKind = "missing_source"

	// MoveDestinationExists means the holding folder already has that name.
	MoveDestinationExists MoveErrorKind = "destination_exists"

	// MoveFailed covers permission and other filesystem errors.
	MoveFailed MoveErrorKind = "failed"
)

// MoveError reports one abandoned move. The batch continues past it.
type MoveError struct {
	BaseName string
	Filename string
	Kind     MoveErrorKind
	Err      error
}

func (e *MoveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("move %s: %s: %v", e.Filename, e.Kind, e.Err)
	}
	return fmt.Sprintf("move %s: %s", e.Filename, e.Kind)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// IsMoveError reports whether err is, or wraps, a MoveError.
func IsMoveError(err error) bool {
	var me *MoveError
	return errors.As(err, &me)
}

// HoldingFolderError reports that the holding folder could not be resolved.
// No moves are attempted after it.
type HoldingFolderError struct {
	Path string
	Err  error
}

func (e *HoldingFolderError) Error() string {
	return fmt.Sprintf("holding folder %s: %v", e.Path, e.Err)
}

func (e *HoldingFolderError) Unwrap() error {
	return e.Err
}
