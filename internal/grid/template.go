package grid

// DefaultSheetName names the single table of a new template.
const DefaultSheetName = "Transmittal"

// templateBlankRows separate the title block from the header rows.
const templateBlankRows = 7

// NewTemplate returns an empty transmittal grid with no issue columns and
// no drawing rows.
func NewTemplate() *Grid {
	rows := [][]string{
		{"PROJECT: "},
		{},
		{"DRAWING TRANSMITTAL"},
	}
	for i := 0; i < templateBlankRows; i++ {
		rows = append(rows, []string{})
	}
	rows = append(rows,
		[]string{DateSentinel, ""},
		[]string{IssueSentinel, ""},
		[]string{DrawingHeader, TitleHeader},
	)
	return New(rows)
}

// NewTemplateDocument wraps NewTemplate in a single-sheet document.
func NewTemplateDocument() *Document {
	return &Document{Sheets: []*Sheet{{Name: DefaultSheetName, Grid: NewTemplate()}}}
}
