package grid

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Sheet is one named table of a document.
type Sheet struct {
	Name string
	Grid *Grid
}

// Document is a persisted transmittal matrix. The matrix lives on the first
// sheet; other sheets are carried through a save unchanged.
type Document struct {
	Sheets []*Sheet

	// parts are the archive entries of a loaded .ods other than mimetype and
	// content.xml (styles, meta, manifest). They are written back as read.
	parts []odsPart
}

// Grid returns the first sheet's grid.
func (d *Document) Grid() *Grid {
	if len(d.Sheets) == 0 {
		return nil
	}
	return d.Sheets[0].Grid
}

// Format identifies a persisted document encoding.
type Format string

const (
	FormatODS Format = "ods"
	FormatCSV Format = "csv"
)

// FormatOf picks the encoding from the path's extension, ignoring case.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ods":
		return FormatODS, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads a document from path. A document without any table is an
// error; header rows are not checked here.
func Load(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var doc *Document
	switch format {
	case FormatODS:
		doc, err = loadODS(path)
	case FormatCSV:
		doc, err = loadCSV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if len(doc.Sheets) == 0 {
		return nil, fmt.Errorf("load %s: %w", path, ErrNoTable)
	}
	return doc, nil
}

// Save writes doc to path, replacing any existing file. The file is written
// in place; an interrupted save leaves it truncated.
func Save(path string, doc *Document) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if len(doc.Sheets) == 0 {
		return fmt.Errorf("save %s: %w", path, ErrNoTable)
	}

	switch format {
	case FormatODS:
		err = saveODS(path, doc)
	case FormatCSV:
		err = saveCSV(path, doc)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// trimRow drops trailing blank cells.
func trimRow(row []string) []string {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	return row[:n]
}
