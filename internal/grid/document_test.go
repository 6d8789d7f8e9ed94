package grid

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadedTemplate is NewTemplate as it reads back from disk: trailing blank
// cells are not persisted.
func loadedTemplate() [][]string {
	rows := [][]string{{"PROJECT: "}, {}, {"DRAWING TRANSMITTAL"}}
	for i := 0; i < templateBlankRows; i++ {
		rows = append(rows, []string{})
	}
	return append(rows, []string{"Date"}, []string{"Issue"}, []string{"Drawing No.", "Title"})
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("x/Transmittal_Template.ODS")
	require.NoError(t, err)
	assert.Equal(t, FormatODS, f)

	f, err = FormatOf("matrix.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = FormatOf("matrix.xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTemplateRoundTrip(t *testing.T) {
	for _, name := range []string{"matrix.ods", "matrix.csv"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, NewTemplateDocument()))

			doc, err := Load(path)
			require.NoError(t, err)
			require.Len(t, doc.Sheets, 1)
			assert.Equal(t, loadedTemplate(), doc.Grid().Rows)

			h, err := doc.Grid().FindHeaderRows()
			require.NoError(t, err)
			assert.Equal(t, HeaderRows{Date: 10, Issue: 11}, h)
		})
	}
}

func TestODS_TextRoundTrip(t *testing.T) {
	cells := []string{
		"PROJECT: ",
		"  leading",
		"a  b   c",
		"tab\there",
		"two\nlines",
		`<&"quoted">`,
		"Café",
	}
	doc := &Document{Sheets: []*Sheet{{Name: "S & T", Grid: New([][]string{cells})}}}

	path := filepath.Join(t.TempDir(), "text.ods")
	require.NoError(t, Save(path, doc))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "S & T", loaded.Sheets[0].Name)
	assert.Equal(t, [][]string{cells}, loaded.Grid().Rows)
}

func TestODS_MimetypeFirstAndStored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.ods")
	require.NoError(t, Save(path, NewTemplateDocument()))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	require.NotEmpty(t, zr.File)
	first := zr.File[0]
	assert.Equal(t, "mimetype", first.Name)
	assert.Equal(t, zip.Store, first.Method)

	rc, err := first.Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, odsMimetype, string(data))

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"mimetype", "content.xml", "META-INF/manifest.xml"}, names)
}

func TestDecodeContent_RepeatsAndParagraphs(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="` + nsOffice + `" xmlns:table="` + nsTable + `" xmlns:text="` + nsText + `">
<office:body><office:spreadsheet>
<table:table table:name="Sheet1">
<table:table-column table:number-columns-repeated="1024"/>
<table:table-row>
 <table:table-cell office:value-type="string"><text:p>Date</text:p></table:table-cell>
 <table:table-cell table:number-columns-repeated="2"/>
 <table:table-cell office:value-type="string"><text:p>2024-01-01</text:p></table:table-cell>
 <table:table-cell table:number-columns-repeated="1020"/>
</table:table-row>
<table:table-row table:number-rows-repeated="2">
 <table:table-cell table:number-columns-repeated="2"><text:p>x</text:p></table:table-cell>
</table:table-row>
<table:table-row table:number-rows-repeated="3"><table:table-cell/></table:table-row>
<table:table-header-rows>
<table:table-row>
 <table:table-cell><office:annotation><text:p>note</text:p></office:annotation><text:p>two</text:p><text:p>para<text:span> span</text:span><text:s text:c="2"/>end</text:p></table:table-cell>
 <table:covered-table-cell/>
 <table:table-cell office:value-type="float" office:value="3"/>
</table:table-row>
</table:table-header-rows>
<table:table-row table:number-rows-repeated="1048570"><table:table-cell table:number-columns-repeated="1024"/></table:table-row>
</table:table>
<table:table table:name="Other">
<table:table-row><table:table-cell><text:p>only</text:p></table:table-cell></table:table-row>
</table:table>
</office:spreadsheet></office:body></office:document-content>`

	sheets, err := decodeContent(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	assert.Equal(t, "Sheet1", sheets[0].Name)
	assert.Equal(t, [][]string{
		{"Date", "", "", "2024-01-01"},
		{"x", "x"},
		{"x", "x"},
		{},
		{},
		{},
		{"two\npara span  end", "", "3"},
	}, sheets[0].Grid.Rows)

	assert.Equal(t, "Other", sheets[1].Name)
	assert.Equal(t, [][]string{{"only"}}, sheets[1].Grid.Rows)
}

func TestODS_PreservesOtherParts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styled.ods")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	entries := []struct{ name, body string }{
		{"mimetype", odsMimetype},
		{"content.xml", string(encodeContent(NewTemplateDocument().Sheets))},
		{"styles.xml", "<styles/>"},
		{"META-INF/manifest.xml", "<manifest/>"},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = io.WriteString(w, e.body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	doc, err := Load(path)
	require.NoError(t, err)
	doc.Grid().UpsertCell(0, 0, "PROJECT: Riverside")
	require.NoError(t, Save(path, doc))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	got := map[string]string{}
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		got[zf.Name] = string(data)
	}
	assert.Equal(t, "<styles/>", got["styles.xml"])
	assert.Equal(t, "<manifest/>", got["META-INF/manifest.xml"])

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "PROJECT: Riverside", reloaded.Grid().Cell(0, 0))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.ods"))
	assert.Error(t, err)

	notZip := filepath.Join(dir, "broken.ods")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip"), 0644))
	_, err = Load(notZip)
	assert.Error(t, err)

	noContent := filepath.Join(dir, "empty.ods")
	f, err := os.Create(noContent)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("mimetype")
	require.NoError(t, err)
	_, err = io.WriteString(w, odsMimetype)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	_, err = Load(noContent)
	assert.ErrorContains(t, err, "content.xml")

	emptyCSV := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(emptyCSV, nil, 0644))
	doc, err := Load(emptyCSV)
	require.NoError(t, err)
	_, err = doc.Grid().FindHeaderRows()
	assert.True(t, IsHeaderNotFound(err))
}

func TestCSV_RaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.csv")
	doc := &Document{Sheets: []*Sheet{{Name: "m", Grid: New([][]string{
		{"Date", "", "2024-05-01"},
		{"Issue", "", "TP (PDF, DWG)"},
		{"A101", "Plan, level 1", "B"},
		{"A102"},
	})}}}
	require.NoError(t, Save(path, doc))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Grid().Rows, loaded.Grid().Rows)
}

func TestCSV_ByteOrderMark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "register.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffDate,,2024-05-01\nIssue,,TP (PDF)\nA101,Plan,B\n"), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	g := loaded.Grid()
	assert.Equal(t, "Date", g.Cell(0, 0))

	h, err := g.FindHeaderRows()
	require.NoError(t, err)
	assert.Equal(t, HeaderRows{Date: 0, Issue: 1}, h)
	assert.Equal(t, map[string]int{"A101": 2}, g.DrawingRows(h))
}
