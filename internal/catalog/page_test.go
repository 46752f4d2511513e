package catalog

import (
	"strings"
	"testing"
)

const planHTML = `<html><body>
<table class="sc_plangrid">
	<tr class="plangridyear"><th class="year" colspan="3">Freshman Year</th></tr>
	<tr class="plangridterm"><th class="hourscol" colspan="2">Fall</th><th>Semester Credit Hours</th></tr>
	<tr class="even"><td class="codecol">ENGL&nbsp;103</td><td>Composition <sup>1</sup></td><td class="hourscol">3</td></tr>
	<tr class="odd"><td class="codecol orclass">MATH 151</td><td>Engineering Mathematics I</td><td class="hourscol">4</td></tr>
</table>
<table><tr><td>second table</td></tr></table>
</body></html>`

func TestTables(t *testing.T) {
	page, err := ParsePage(strings.NewReader(planHTML))
	if err != nil {
		t.Fatalf("ParsePage() error: %v", err)
	}

	tables := page.Tables()
	if len(tables) != 2 {
		t.Fatalf("len(tables) = %d, want 2", len(tables))
	}

	rows := tables[0].Rows
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}

	year := rows[0].Cells[0]
	if !year.HasClass("year") || !year.Header {
		t.Errorf("year cell = %+v, want header with class year", year)
	}
	if year.Text != "Freshman Year" {
		t.Errorf("year text = %q", year.Text)
	}

	course := rows[2]
	if len(course.Cells) != 3 {
		t.Fatalf("len(cells) = %d, want 3", len(course.Cells))
	}
	if !course.Cells[0].HasClass("codecol") {
		t.Error("first cell should carry codecol")
	}
	if course.Cells[0].Text != "ENGL\u00a0103" {
		t.Errorf("code text = %q", course.Cells[0].Text)
	}
	if course.Cells[2].Text != "3" {
		t.Errorf("hours text = %q", course.Cells[2].Text)
	}

	multi := rows[3].Cells[0]
	if !multi.HasClass("codecol") || !multi.HasClass("orclass") {
		t.Errorf("classes = %v, want codecol and orclass", multi.Classes)
	}
	if multi.HasClass("code") {
		t.Error("HasClass should match whole class names only")
	}
}

func TestRow_DataCells(t *testing.T) {
	page, err := ParsePage(strings.NewReader(planHTML))
	if err != nil {
		t.Fatalf("ParsePage() error: %v", err)
	}
	rows := page.Tables()[0].Rows

	if got := len(rows[1].DataCells()); got != 0 {
		t.Errorf("term row data cells = %d, want 0", got)
	}
	if got := len(rows[2].DataCells()); got != 3 {
		t.Errorf("course row data cells = %d, want 3", got)
	}
}

func TestTables_NestedRowsOnlyDirectCells(t *testing.T) {
	html := `<table><tr><td class="codecol">CSCE 121<table><tr><td>inner</td></tr></table></td><td>Intro</td></tr></table>`
	page, err := ParsePage(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParsePage() error: %v", err)
	}

	tables := page.Tables()
	if len(tables) != 2 {
		t.Fatalf("len(tables) = %d, want 2", len(tables))
	}
	outer := tables[0]
	if len(outer.Rows) != 2 {
		t.Fatalf("outer rows = %d, want 2 (nested row included)", len(outer.Rows))
	}
	if got := len(outer.Rows[0].Cells); got != 2 {
		t.Errorf("outer first row cells = %d, want 2", got)
	}
}

func TestPageText(t *testing.T) {
	html := `<html><body><div class="courseblock"><p>CSCE 221 Data Structures</p>
<p>Prerequisite: Grade of C or better in CSCE 121.</p></div></body></html>`
	page, err := ParsePage(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParsePage() error: %v", err)
	}

	text := page.Text()
	if !strings.Contains(text, "Prerequisite: Grade of C or better in CSCE 121.") {
		t.Errorf("Text() = %q, missing prerequisite sentence", text)
	}
}
