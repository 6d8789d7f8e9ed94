package matrix

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/revmatrix/internal/fsutil"
	"github.com/roach88/revmatrix/internal/grid"
)

// DefaultTemplateName is the matrix document looked for first in a folder.
const DefaultTemplateName = "Transmittal_Template.ods"

// ErrNoDocument is returned when no matrix document exists and creation
// was not requested.
var ErrNoDocument = errors.New("no transmittal document found")

// FindDocument returns the .ods file of folder named templateName, ignoring
// case, or else the first .ods file by name. ok is false if there is none.
func FindDocument(folder, templateName string) (path string, ok bool, err error) {
	names, err := fsutil.FindFilesByExtension(folder, ".ods")
	if err != nil {
		return "", false, err
	}
	if len(names) == 0 {
		return "", false, nil
	}
	for _, n := range names {
		if strings.EqualFold(n, templateName) {
			return filepath.Join(folder, n), true, nil
		}
	}
	return filepath.Join(folder, names[0]), true, nil
}

// SyncFile loads the document at path, synchronizes its first sheet with
// folder and saves it back. A missing document is created from the template
// when create is set. Nothing is written when synchronization fails.
func (s *Synchronizer) SyncFile(path, folder string, issue Issue, create bool) (*Report, error) {
	doc, created, err := openDocument(path, create)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("creating transmittal from template", "path", path)
	} else {
		s.logger.Info("loaded transmittal", "path", path)
	}

	report, err := s.Synchronize(doc.Grid(), folder, issue)
	if report != nil {
		report.Document = path
		report.DocumentCreated = created
	}
	if err != nil {
		return report, err
	}

	if err := grid.Save(path, doc); err != nil {
		return report, err
	}
	s.logger.Info("transmittal saved", "path", path, "drawings", len(report.Entries))
	return report, nil
}

func openDocument(path string, create bool) (*grid.Document, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
		if !create {
			return nil, false, fmt.Errorf("%w: %s", ErrNoDocument, path)
		}
		if _, err := grid.FormatOf(path); err != nil {
			return nil, false, err
		}
		return grid.NewTemplateDocument(), true, nil
	}

	doc, err := grid.Load(path)
	if err != nil {
		return nil, false, err
	}
	return doc, false, nil
}

// CreateTemplate writes a new template document to path. An existing file
// is only replaced when overwrite is set.
func CreateTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("create template: %w: %s", fs.ErrExist, path)
		}
	}
	return grid.Save(path, grid.NewTemplateDocument())
}
