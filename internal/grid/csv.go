package grid

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// loadCSV reads a single-sheet document. A leading byte order mark, as
// spreadsheet programs write for UTF-8 CSV, is dropped. Trailing blank
// cells are dropped so that a loaded CSV matches a loaded ODS of the same
// grid.
func loadCSV(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, append([]string{}, trimRow(rec)...))
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Document{Sheets: []*Sheet{{Name: name, Grid: New(rows)}}}, nil
}

// saveCSV writes the first sheet only. Blank rows are written as a lone
// separator because the reader skips empty lines.
func saveCSV(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	for _, row := range doc.Grid().Rows {
		if len(trimRow(row)) == 0 {
			row = []string{"", ""}
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
