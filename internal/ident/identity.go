package ident

import (
	"path/filepath"
	"strings"
)

// Format is the upper-cased file format of a drawing ("PDF", "DWG", ...).
// The set is open: any extension a pattern captures becomes a Format.
type Format string

// Known drawing formats.
const (
	FormatPDF Format = "PDF"
	FormatDWG Format = "DWG"
	FormatDXF Format = "DXF"
)

// ParseFormat normalizes an extension (".pdf", "pdf", "PDF") to a Format.
func ParseFormat(ext string) Format {
	return Format(strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(ext), ".")))
}

// Identity is the structured form of one drawing filename.
type Identity struct {
	// Filename is the name as found on disk.
	Filename string `json:"filename"`

	// BaseName identifies the drawing across all of its revisions.
	BaseName string `json:"base_name"`

	// Revision is the upper-cased revision token; empty means the filename
	// carries no explicit revision marker.
	Revision string `json:"revision,omitempty"`

	// Format is taken from the pattern's third group when present,
	// otherwise from the filename extension.
	Format Format `json:"format"`
}

// HasRevision reports whether the filename carried an explicit revision.
func (id Identity) HasRevision() bool {
	return id.Revision != ""
}

func formatFromFilename(filename string) Format {
	return ParseFormat(filepath.Ext(filename))
}
