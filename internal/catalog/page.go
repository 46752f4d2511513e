package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is a parsed catalog page
type Page struct {
	URL string
	doc *goquery.Document
}

// Table is a materialized HTML table
type Table struct {
	Rows []Row
}

// Row is a single <tr> with its cells
type Row struct {
	Cells []Cell
	Text  string // untrimmed text of the whole row
}

// Cell is a single <td> or <th>
type Cell struct {
	Classes []string
	Text    string // trimmed
	Header  bool   // true for <th>
}

// HasClass reports whether the cell carries the given class
func (c Cell) HasClass(name string) bool {
	for _, cls := range c.Classes {
		if cls == name {
			return true
		}
	}
	return false
}

// DataCells returns only the <td> cells of the row
func (r Row) DataCells() []Cell {
	cells := make([]Cell, 0, len(r.Cells))
	for _, c := range r.Cells {
		if !c.Header {
			cells = append(cells, c)
		}
	}
	return cells
}

// Text returns the flattened text content of the whole document
func (p *Page) Text() string {
	return p.doc.Text()
}

// Tables returns every table in document order, nested tables included.
// Rows are collected from all descendant <tr> elements, so rows of a nested
// table also appear in the enclosing table.
func (p *Page) Tables() []Table {
	tables := make([]Table, 0)

	p.doc.Find("table").Each(func(i int, tableSel *goquery.Selection) {
		table := Table{Rows: make([]Row, 0)}

		tableSel.Find("tr").Each(func(j int, rowSel *goquery.Selection) {
			row := Row{Text: rowSel.Text()}

			rowSel.Find("td, th").Each(func(k int, cellSel *goquery.Selection) {
				// only direct cells of this row
				if cellSel.Parent().Get(0) != rowSel.Get(0) {
					return
				}
				row.Cells = append(row.Cells, newCell(cellSel))
			})

			table.Rows = append(table.Rows, row)
		})

		tables = append(tables, table)
	})

	return tables
}

func newCell(sel *goquery.Selection) Cell {
	cell := Cell{
		Text:   strings.TrimSpace(sel.Text()),
		Header: sel.Get(0).Type == html.ElementNode && sel.Get(0).Data == "th",
	}
	if class, ok := sel.Attr("class"); ok {
		cell.Classes = strings.Fields(class)
	}
	return cell
}
