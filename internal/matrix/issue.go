package matrix

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIssueCodeRequired is returned by NewIssue for a blank code.
	ErrIssueCodeRequired = errors.New("issue code is required")

	// ErrFormatsRequired is returned by NewIssue for a blank format list.
	ErrFormatsRequired = errors.New("formats are required")
)

// Issue describes one issue event: a code such as TP, REV or FC and the
// formats issued, e.g. "PDF, DWG".
type Issue struct {
	Code    string `json:"code"`
	Formats string `json:"formats"`
}

// NewIssue trims and upper-cases code and formats.
func NewIssue(code, formats string) (Issue, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	formats = strings.ToUpper(strings.TrimSpace(formats))
	if code == "" {
		return Issue{}, ErrIssueCodeRequired
	}
	if formats == "" {
		return Issue{}, ErrFormatsRequired
	}
	return Issue{Code: code, Formats: formats}, nil
}

// Meta is the issue-row text, "{code} ({formats})".
func (i Issue) Meta() string {
	return fmt.Sprintf("%s (%s)", i.Code, i.Formats)
}
