package grid

import "strings"

// Sentinels and fixed layout.
const (
	DateSentinel  = "Date"
	IssueSentinel = "Issue"
	DrawingHeader = "Drawing No."
	TitleHeader   = "Title"

	// IdentityColumns is the number of leading columns (drawing number and
	// title) that precede the first issue column.
	IdentityColumns = 2
)

// Grid is a ragged table of cell text. Rows may have different lengths;
// missing cells read as blank.
type Grid struct {
	Rows [][]string
}

// New returns a grid over rows. The slice is used as is.
func New(rows [][]string) *Grid {
	return &Grid{Rows: rows}
}

// HeaderRows holds the indices of the two sentinel rows.
type HeaderRows struct {
	Date  int
	Issue int
}

// Cell returns the text of a cell, or "" if it does not exist.
func (g *Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g.Rows) || col < 0 || col >= len(g.Rows[row]) {
		return ""
	}
	return g.Rows[row][col]
}

// key is the comparable form of a cell: surrounding whitespace is ignored.
func (g *Grid) key(row, col int) string {
	return strings.TrimSpace(g.Cell(row, col))
}

// FindHeaderRows locates the first row whose first cell is "Date" and the
// first whose first cell is "Issue". Either one missing is an error.
func (g *Grid) FindHeaderRows() (HeaderRows, error) {
	h := HeaderRows{Date: -1, Issue: -1}
	for i := range g.Rows {
		switch g.key(i, 0) {
		case DateSentinel:
			if h.Date < 0 {
				h.Date = i
			}
		case IssueSentinel:
			if h.Issue < 0 {
				h.Issue = i
			}
		}
	}

	var missing []string
	if h.Date < 0 {
		missing = append(missing, DateSentinel)
	}
	if h.Issue < 0 {
		missing = append(missing, IssueSentinel)
	}
	if len(missing) > 0 {
		return HeaderRows{}, &HeaderNotFoundError{Missing: missing}
	}
	return h, nil
}

// Width is the header width: the length of the date row.
func (g *Grid) Width(h HeaderRows) int {
	return len(g.Rows[h.Date])
}

// IssueColumns returns the labels of the date row from IdentityColumns on.
func (g *Grid) IssueColumns(h HeaderRows) []string {
	var out []string
	for c := IdentityColumns; c < len(g.Rows[h.Date]); c++ {
		out = append(out, g.key(h.Date, c))
	}
	return out
}

// FindOrCreateIssueColumn returns the column whose date-row cell equals
// label, overwriting its meta-row cell with meta. If there is none, a column
// is appended to both header rows. Either way every row below the issue row
// is padded to the header width. created reports whether a column was added.
func (g *Grid) FindOrCreateIssueColumn(h HeaderRows, label, meta string) (col int, created bool) {
	g.pad(h.Date, IdentityColumns)

	col = -1
	for c := IdentityColumns; c < len(g.Rows[h.Date]); c++ {
		if g.key(h.Date, c) == label {
			col = c
			break
		}
	}

	if col < 0 {
		g.pad(h.Issue, len(g.Rows[h.Date]))
		col = len(g.Rows[h.Date])
		g.Rows[h.Date] = append(g.Rows[h.Date], label)
		created = true
	}
	g.UpsertCell(h.Issue, col, meta)

	width := g.Width(h)
	g.pad(h.Issue, width)
	for r := h.Issue + 1; r < len(g.Rows); r++ {
		g.pad(r, width)
	}
	return col, created
}

// DrawingRows indexes the rows below both header rows by the text of their
// first cell. Blank first cells and the "Drawing No." column header are
// skipped. When a drawing number repeats, the last row wins.
func (g *Grid) DrawingRows(h HeaderRows) map[string]int {
	rows := make(map[string]int)
	for r := max(h.Date, h.Issue) + 1; r < len(g.Rows); r++ {
		key := g.key(r, 0)
		if key == "" || key == DrawingHeader {
			continue
		}
		rows[key] = r
	}
	return rows
}

// UpsertCell replaces the text of a cell, padding the row with blank cells
// as needed.
func (g *Grid) UpsertCell(row, col int, text string) {
	g.pad(row, col+1)
	g.Rows[row][col] = text
}

// AppendDrawingRow adds a row for baseName with text at col and blanks
// elsewhere, as wide as the header. It returns the new row's index.
func (g *Grid) AppendDrawingRow(h HeaderRows, baseName string, col int, text string) int {
	n := g.Width(h)
	if col+1 > n {
		n = col + 1
	}
	row := make([]string, n)
	row[0] = baseName
	row[col] = text
	g.Rows = append(g.Rows, row)
	return len(g.Rows) - 1
}

// pad extends row r with blank cells until it has at least n.
func (g *Grid) pad(r, n int) {
	for len(g.Rows[r]) < n {
		g.Rows[r] = append(g.Rows[r], "")
	}
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	rows := make([][]string, len(g.Rows))
	for i, r := range g.Rows {
		rows[i] = append([]string{}, r...)
	}
	return &Grid{Rows: rows}
}
