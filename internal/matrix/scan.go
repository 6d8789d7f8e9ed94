package matrix

import (
	"github.com/roach88/revmatrix/internal/fsutil"
	"github.com/roach88/revmatrix/internal/ident"
	"github.com/roach88/revmatrix/internal/revision"
)

// Drawing is the revision of one drawing found on disk.
type Drawing struct {
	BaseName string       `json:"base_name"`
	Revision string       `json:"revision"`
	Format   ident.Format `json:"format"`
	Filename string       `json:"filename"`
}

// Scan is the result of reading a drawings folder.
type Scan struct {
	// Drawings holds the highest revision per base name, sorted by base name.
	Drawings []Drawing

	// Unrecognized lists in-scope files that matched no pattern.
	Unrecognized []string

	// Unrevisioned lists files that matched a pattern without a revision
	// group. They cannot be recorded.
	Unrevisioned []string
}

// ScanFolder identifies every in-scope file of folder and keeps the highest
// revision letter of each drawing.
func (s *Synchronizer) ScanFolder(folder string) (*Scan, error) {
	names, err := fsutil.ListFiles(folder)
	if err != nil {
		return nil, err
	}

	ids, unrecognized := s.matcher.Classify(names, s.filter)
	scan := &Scan{
		Drawings:     []Drawing{},
		Unrecognized: []string{},
		Unrevisioned: []string{},
	}
	scan.Unrecognized = append(scan.Unrecognized, unrecognized...)

	var revisioned []ident.Identity
	for _, id := range ids {
		if !id.HasRevision() {
			s.logger.Info("skipping file without revision", "file", id.Filename)
			scan.Unrevisioned = append(scan.Unrevisioned, id.Filename)
			continue
		}
		revisioned = append(revisioned, id)
	}

	for _, g := range revision.Group(revisioned) {
		s.logger.Debug("found drawing", "base", g.BaseName, "revision", g.Keep.Revision, "format", g.Keep.Format)
		scan.Drawings = append(scan.Drawings, Drawing{
			BaseName: g.BaseName,
			Revision: g.Keep.Revision,
			Format:   g.Keep.Format,
			Filename: g.Keep.Filename,
		})
	}
	return scan, nil
}
