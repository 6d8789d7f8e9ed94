package harness

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/roach88/revmatrix/internal/grid"
	"github.com/roach88/revmatrix/internal/matrix"
)

// AssertionError is a failed assertion, with its position in the scenario.
type AssertionError struct {
	Index   int
	Type    string
	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion %d (%s): %s", e.Index, e.Type, e.Message)
}

// EvaluateAssertions checks every assertion against the result and the
// scenario folder, returning one message per failure.
func EvaluateAssertions(result *Result, dir string, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, dir, a); err != nil {
			failures = append(failures, (&AssertionError{Index: i, Type: a.Type, Message: err.Error()}).Error())
		}
	}
	return failures
}

func evaluate(result *Result, dir string, a Assertion) error {
	switch a.Type {
	case AssertMoved:
		return sameSet(a.Files, result.moved())
	case AssertKept:
		step := result.lastClean()
		if step == nil {
			return errors.New("no clean step ran")
		}
		return sameSet(a.Files, step.Kept)
	case AssertUnrecognized:
		step := result.last()
		if step == nil {
			return errors.New("no step ran")
		}
		return sameSet(a.Files, step.Unrecognized)
	case AssertPresent:
		for _, f := range a.Files {
			if _, err := os.Lstat(filepath.Join(dir, filepath.FromSlash(f))); err != nil {
				return fmt.Errorf("%s: expected to exist", f)
			}
		}
		return nil
	case AssertAbsent:
		for _, f := range a.Files {
			_, err := os.Lstat(filepath.Join(dir, filepath.FromSlash(f)))
			if err == nil {
				return fmt.Errorf("%s: expected to be absent", f)
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
		return nil
	case AssertColumns:
		g, h, err := loadDocument(dir, a.Document)
		if err != nil {
			return err
		}
		got := g.IssueColumns(h)
		if !slices.Equal(a.Labels, got) && !(len(a.Labels) == 0 && len(got) == 0) {
			return fmt.Errorf("columns: expected %q, got %q", a.Labels, got)
		}
		return nil
	case AssertMeta:
		g, h, err := loadDocument(dir, a.Document)
		if err != nil {
			return err
		}
		col, err := columnOf(g, h, a.Column)
		if err != nil {
			return err
		}
		if got := g.Cell(h.Issue, col); got != a.Expect {
			return fmt.Errorf("meta under %s: expected %q, got %q", a.Column, a.Expect, got)
		}
		return nil
	case AssertRevision:
		g, h, err := loadDocument(dir, a.Document)
		if err != nil {
			return err
		}
		col, err := columnOf(g, h, a.Column)
		if err != nil {
			return err
		}
		row, ok := g.DrawingRows(h)[a.Drawing]
		if !ok {
			return fmt.Errorf("drawing %s: no row", a.Drawing)
		}
		if got := g.Cell(row, col); got != a.Expect {
			return fmt.Errorf("drawing %s under %s: expected %q, got %q", a.Drawing, a.Column, a.Expect, got)
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func loadDocument(dir, name string) (*grid.Grid, grid.HeaderRows, error) {
	if name == "" {
		name = matrix.DefaultTemplateName
	}
	doc, err := grid.Load(filepath.Join(dir, name))
	if err != nil {
		return nil, grid.HeaderRows{}, err
	}
	g := doc.Grid()
	h, err := g.FindHeaderRows()
	if err != nil {
		return nil, grid.HeaderRows{}, err
	}
	return g, h, nil
}

func columnOf(g *grid.Grid, h grid.HeaderRows, label string) (int, error) {
	for i, l := range g.IssueColumns(h) {
		if l == label {
			return grid.IdentityColumns + i, nil
		}
	}
	return 0, fmt.Errorf("no issue column %q", label)
}

// sameSet compares two name lists ignoring order.
func sameSet(want, got []string) error {
	w := append([]string{}, want...)
	g := append([]string{}, got...)
	sort.Strings(w)
	sort.Strings(g)
	if !slices.Equal(w, g) {
		return fmt.Errorf("expected %q, got %q", w, g)
	}
	return nil
}
