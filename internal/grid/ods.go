package grid

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	odsMimetype = "application/vnd.oasis.opendocument.spreadsheet"

	nsOffice   = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsTable    = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText     = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsManifest = "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0"

	partMimetype = "mimetype"
	partContent  = "content.xml"
	partManifest = "META-INF/manifest.xml"
)

// odsPart is an archive entry carried through a load/save cycle.
type odsPart struct {
	name   string
	method uint16
	data   []byte
}

func loadODS(path string) (*Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	doc := &Document{}
	var content []byte
	for _, f := range zr.File {
		if f.Name == partMimetype || strings.HasSuffix(f.Name, "/") {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		if f.Name == partContent {
			content = data
			continue
		}
		doc.parts = append(doc.parts, odsPart{name: f.Name, method: f.Method, data: data})
	}
	if content == nil {
		return nil, fmt.Errorf("missing %s", partContent)
	}

	doc.Sheets, err = decodeContent(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", partContent, err)
	}
	return doc, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// sheetBuilder accumulates rows while deferring runs of blank cells and rows,
// so that the trailing filler spreadsheet applications write (often a
// million repeated rows) is never materialized.
type sheetBuilder struct {
	rows       [][]string
	blankRows  int
	cells      []string
	blankCells int
}

func (b *sheetBuilder) addCell(text string, repeat int) {
	if text == "" {
		b.blankCells += repeat
		return
	}
	for ; b.blankCells > 0; b.blankCells-- {
		b.cells = append(b.cells, "")
	}
	for i := 0; i < repeat; i++ {
		b.cells = append(b.cells, text)
	}
}

func (b *sheetBuilder) endRow(repeat int) {
	cells := b.cells
	b.cells, b.blankCells = nil, 0
	if len(cells) == 0 {
		b.blankRows += repeat
		return
	}
	for ; b.blankRows > 0; b.blankRows-- {
		b.rows = append(b.rows, []string{})
	}
	for i := 0; i < repeat; i++ {
		b.rows = append(b.rows, append([]string{}, cells...))
	}
}

// cellState collects the paragraphs of the cell being decoded.
type cellState struct {
	repeat   int
	paras    []string
	para     strings.Builder
	inPara   bool
	fallback string
}

func (c *cellState) text() string {
	if len(c.paras) == 0 {
		return c.fallback
	}
	return strings.Join(c.paras, "\n")
}

// decodeContent reads every table of content.xml as plain cell text.
func decodeContent(r io.Reader) ([]*Sheet, error) {
	dec := xml.NewDecoder(r)

	var (
		sheets    []*Sheet
		sheet     *Sheet
		b         *sheetBuilder
		rowRepeat int
		cell      *cellState
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == nsTable && t.Name.Local == "table":
				if sheet != nil {
					// Nested tables are not part of the grid.
					if err := dec.Skip(); err != nil {
						return nil, err
					}
					continue
				}
				sheet = &Sheet{Name: attr(t, nsTable, "name")}
				b = &sheetBuilder{}
			case sheet == nil:
			case t.Name.Space == nsTable && t.Name.Local == "table-row":
				rowRepeat = repeatAttr(t, "number-rows-repeated")
			case t.Name.Space == nsTable && (t.Name.Local == "table-cell" || t.Name.Local == "covered-table-cell"):
				cell = &cellState{
					repeat:   repeatAttr(t, "number-columns-repeated"),
					fallback: attr(t, nsOffice, "string-value"),
				}
				if cell.fallback == "" {
					cell.fallback = attr(t, nsOffice, "value")
				}
			case cell == nil:
			case t.Name.Space == nsOffice && t.Name.Local == "annotation":
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case t.Name.Space == nsText && t.Name.Local == "p":
				cell.inPara = true
				cell.para.Reset()
			case !cell.inPara:
			case t.Name.Space == nsText && t.Name.Local == "s":
				n := 1
				if v, err := strconv.Atoi(attr(t, nsText, "c")); err == nil && v > 0 {
					n = v
				}
				cell.para.WriteString(strings.Repeat(" ", n))
			case t.Name.Space == nsText && t.Name.Local == "tab":
				cell.para.WriteByte('\t')
			case t.Name.Space == nsText && t.Name.Local == "line-break":
				cell.para.WriteByte('\n')
			}

		case xml.CharData:
			if cell != nil && cell.inPara {
				cell.para.Write(t)
			}

		case xml.EndElement:
			switch {
			case sheet == nil:
			case t.Name.Space == nsText && t.Name.Local == "p":
				if cell != nil && cell.inPara {
					cell.paras = append(cell.paras, cell.para.String())
					cell.inPara = false
				}
			case t.Name.Space == nsTable && (t.Name.Local == "table-cell" || t.Name.Local == "covered-table-cell"):
				if cell != nil {
					b.addCell(cell.text(), cell.repeat)
					cell = nil
				}
			case t.Name.Space == nsTable && t.Name.Local == "table-row":
				b.endRow(rowRepeat)
			case t.Name.Space == nsTable && t.Name.Local == "table":
				sheet.Grid = New(b.rows)
				if sheet.Grid.Rows == nil {
					sheet.Grid.Rows = [][]string{}
				}
				sheets = append(sheets, sheet)
				sheet, b = nil, nil
			}
		}
	}
	return sheets, nil
}

func attr(se xml.StartElement, space, local string) string {
	for _, a := range se.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func repeatAttr(se xml.StartElement, local string) int {
	n, err := strconv.Atoi(attr(se, nsTable, local))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func saveODS(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := writeODS(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeODS(w io.Writer, doc *Document) error {
	zw := zip.NewWriter(w)

	// mimetype must be the first entry, stored uncompressed with no data
	// descriptor.
	mime := []byte(odsMimetype)
	mw, err := zw.CreateRaw(&zip.FileHeader{
		Name:               partMimetype,
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE(mime),
		CompressedSize64:   uint64(len(mime)),
		UncompressedSize64: uint64(len(mime)),
	})
	if err != nil {
		return err
	}
	if _, err := mw.Write(mime); err != nil {
		return err
	}

	cw, err := zw.CreateHeader(&zip.FileHeader{Name: partContent, Method: zip.Deflate})
	if err != nil {
		return err
	}
	if _, err := cw.Write(encodeContent(doc.Sheets)); err != nil {
		return err
	}

	hasManifest := false
	for _, p := range doc.parts {
		if p.name == partManifest {
			hasManifest = true
		}
		pw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: p.method})
		if err != nil {
			return err
		}
		if _, err := pw.Write(p.data); err != nil {
			return err
		}
	}
	if !hasManifest {
		pw, err := zw.CreateHeader(&zip.FileHeader{Name: partManifest, Method: zip.Deflate})
		if err != nil {
			return err
		}
		if _, err := io.WriteString(pw, defaultManifest); err != nil {
			return err
		}
	}
	return zw.Close()
}

const defaultManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="` + nsManifest + `" manifest:version="1.2">
 <manifest:file-entry manifest:full-path="/" manifest:version="1.2" manifest:media-type="` + odsMimetype + `"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

// encodeContent renders sheets as content.xml with every cell a string.
func encodeContent(sheets []*Sheet) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(`<office:document-content xmlns:office="` + nsOffice +
		`" xmlns:table="` + nsTable + `" xmlns:text="` + nsText + `" office:version="1.2">`)
	buf.WriteString("<office:body><office:spreadsheet>")

	for _, s := range sheets {
		buf.WriteString(`<table:table table:name="`)
		xml.EscapeText(&buf, []byte(s.Name))
		buf.WriteString(`">`)

		width := 1
		for _, row := range s.Grid.Rows {
			if len(row) > width {
				width = len(row)
			}
		}
		fmt.Fprintf(&buf, `<table:table-column table:number-columns-repeated="%d"/>`, width)

		for _, row := range s.Grid.Rows {
			buf.WriteString("<table:table-row>")
			if len(row) == 0 {
				buf.WriteString("<table:table-cell/>")
			}
			for _, text := range row {
				if text == "" {
					buf.WriteString("<table:table-cell/>")
					continue
				}
				buf.WriteString(`<table:table-cell office:value-type="string">`)
				for _, line := range strings.Split(text, "\n") {
					writeParagraph(&buf, line)
				}
				buf.WriteString("</table:table-cell>")
			}
			buf.WriteString("</table:table-row>")
		}
		buf.WriteString("</table:table>")
	}

	buf.WriteString("</office:spreadsheet></office:body></office:document-content>\n")
	return buf.Bytes()
}

// writeParagraph writes s as a text:p. Spaces that XML whitespace handling
// would collapse (leading, trailing or repeated) become text:s elements.
func writeParagraph(buf *bytes.Buffer, s string) {
	buf.WriteString("<text:p>")
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			xml.EscapeText(buf, []byte(plain.String()))
			plain.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch s[i] {
		case '\t':
			flush()
			buf.WriteString("<text:tab/>")
			i++
		case ' ':
			j := i
			for j < len(s) && s[j] == ' ' {
				j++
			}
			n := j - i
			if i > 0 && j < len(s) {
				plain.WriteByte(' ')
				n--
			}
			flush()
			if n > 0 {
				fmt.Fprintf(buf, `<text:s text:c="%d"/>`, n)
			}
			i = j
		default:
			plain.WriteByte(s[i])
			i++
		}
	}
	flush()
	buf.WriteString("</text:p>")
}
