package grid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned for document paths with an extension
// other than .ods or .csv.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrNoTable is returned when a loaded document contains no table.
var ErrNoTable = errors.New("document has no table")

// HeaderNotFoundError reports that a grid lacks one or both sentinel rows.
type HeaderNotFoundError struct {
	Missing []string
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("header rows not found: %s", strings.Join(e.Missing, ", "))
}

// IsHeaderNotFound reports whether err is, or wraps, a HeaderNotFoundError.
func IsHeaderNotFound(err error) bool {
	var he *HeaderNotFoundError
	return errors.As(err, &he)
}
