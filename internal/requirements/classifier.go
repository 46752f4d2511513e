package requirements

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/catalog-courses/internal/catalog"
	"github.com/pfrederiksen/catalog-courses/internal/logger"
	"github.com/pfrederiksen/catalog-courses/internal/prereq"
)

const (
	// CodeClass marks the cell holding a course code
	CodeClass = "codecol"
	// YearClass marks the first cell of a year header row
	YearClass = "year"
)

var termNames = []string{"fall", "spring", "summer"}

// RowKind is the shape a table row was classified as
type RowKind int

const (
	KindSkipped RowKind = iota
	KindYear
	KindSemester
	KindSelection
	KindSpecial
	KindCourse
	KindDuplicate
)

func (k RowKind) String() string {
	switch k {
	case KindYear:
		return "year"
	case KindSemester:
		return "semester"
	case KindSelection:
		return "selection"
	case KindSpecial:
		return "special"
	case KindCourse:
		return "course"
	case KindDuplicate:
		return "duplicate"
	default:
		return "skipped"
	}
}

// PrereqResolver resolves the prerequisite text of a course code
type PrereqResolver interface {
	Resolve(ctx context.Context, code string) string
}

// Options selects program-specific parsing behavior
type Options struct {
	// CreditQuotas recognizes "select N hours" blocks and annotates selection
	// records with their requirement and note.
	CreditQuotas bool
}

// Classifier walks catalog table rows and accumulates requirement records.
// A Classifier holds the running year and semester context and lives for the
// walk of a single program.
type Classifier struct {
	resolver PrereqResolver
	opts     Options

	year     string
	semester string
	records  []Record
	seen     map[string]bool
}

// NewClassifier creates a Classifier that resolves prerequisites with resolver
func NewClassifier(resolver PrereqResolver, opts Options) *Classifier {
	return &Classifier{
		resolver: resolver,
		opts:     opts,
		records:  make([]Record, 0),
		seen:     make(map[string]bool),
	}
}

// Records returns the records accumulated so far
func (c *Classifier) Records() []Record {
	return c.records
}

// Walk classifies the rows of every table in order and returns all records
func (c *Classifier) Walk(ctx context.Context, tables []catalog.Table) []Record {
	for _, table := range tables {
		c.ClassifyTable(ctx, table.Rows)
	}
	return c.records
}

// ClassifyTable walks one table. The year and semester context starts empty for
// every table.
func (c *Classifier) ClassifyTable(ctx context.Context, rows []catalog.Row) {
	c.year = ""
	c.semester = ""

	i := 0
	for i < len(rows) {
		next, kind := c.step(ctx, rows, i)
		logger.Debug("Classified row", logger.Fields{
			"row":  i,
			"kind": kind.String(),
		})
		logger.IncrCounter("rows." + kind.String())
		i = next
	}
}

// step classifies rows[i] and returns the index of the next row to classify
func (c *Classifier) step(ctx context.Context, rows []catalog.Row, i int) (int, RowKind) {
	row := rows[i]
	cells := row.Cells

	if len(cells) > 0 && cells[0].HasClass(YearClass) {
		c.year = cells[0].Text
		return i + 1, KindYear
	}

	if len(cells) > 0 && isTerm(cells[0].Text) {
		c.semester = cells[0].Text
		return i + 1, KindSemester
	}

	if sel, ok := parseSelection(row.Text, c.opts.CreditQuotas); ok {
		if next, ok := c.selectionBlock(ctx, rows, i, sel); ok {
			return next, KindSelection
		}
	}

	return i + 1, c.courseRow(ctx, cells)
}

func isTerm(text string) bool {
	text = strings.ToLower(text)
	for _, term := range termNames {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

type option struct {
	code  string
	title string
}

// scanOptions collects course options starting at rows[start]. It stops at the
// first row without a course code and returns the index of that row.
func scanOptions(rows []catalog.Row, start int) ([]option, int) {
	options := make([]option, 0)

	j := start
	for ; j < len(rows); j++ {
		cells := rows[j].DataCells()

		code, found := "", false
		if cell, ok := codeCell(cells); ok {
			code, found = extractOptionCode(cell.Text)
		}
		if !found && len(cells) > 0 {
			code, found = extractOptionCode(cells[0].Text)
		}
		if !found {
			break
		}

		title := titleOf(cells)
		if title == "" && prereq.IsRange(code) {
			title = rangeTitle(code)
		}
		options = append(options, option{code: code, title: title})
	}

	return options, j
}

// selectionBlock expands a "select one" header at rows[i] into a single record.
// It reports false when fewer than two options follow the header.
func (c *Classifier) selectionBlock(ctx context.Context, rows []catalog.Row, i int, sel selection) (int, bool) {
	options, next := scanOptions(rows, i+1)
	if len(options) < 2 {
		return i, false
	}

	// options exist, so rows[i+1] is the first option row
	optionCredits := creditsOf(rows[i+1].DataCells())
	credits := optionCredits
	if sel.quota {
		credits = sel.credits
	}

	alternatives := make([]Alternative, 0, len(options))
	titles := make([]string, 0, len(options))
	for _, opt := range options {
		alternatives = append(alternatives, Alternative{
			Course:  opt.code,
			Name:    opt.title,
			Credits: optionCredits,
			Prereqs: c.resolver.Resolve(ctx, opt.code),
		})
		if opt.title != "" {
			titles = append(titles, opt.title)
		}
	}

	record := Record{
		Course:       options[0].code,
		Alternatives: alternatives,
		Name:         TitleList(titles),
		Credits:      credits,
		Prereqs:      alternatives[0].Prereqs,
		Semester:     c.semesterLabel(),
		Difficulty:   Difficulty,
	}
	if c.opts.CreditQuotas {
		record.SelectionRequirement = sel.requirement
		record.Note = fmt.Sprintf("Must select %d credit hours from the listed alternatives", credits)
	}

	c.add(record)
	return next, true
}

// courseRow handles special entries and regular course rows
func (c *Classifier) courseRow(ctx context.Context, cells []catalog.Cell) RowKind {
	cell, ok := codeCell(cells)
	if !ok {
		return KindSkipped
	}

	text := strings.TrimSpace(normalizeCellText(cell.Text))
	codes := ExtractCodes(text)

	if len(codes) == 0 {
		if text == "" {
			return KindSkipped
		}
		c.add(Record{
			Course:     text,
			Name:       SingleTitle(titleOf(cells)),
			Credits:    creditsOf(cells),
			Prereqs:    "",
			Semester:   c.semesterLabel(),
			Difficulty: Difficulty,
		})
		return KindSpecial
	}

	course := codes[0]
	if c.seen[course] {
		return KindDuplicate
	}

	title := titleOf(cells)
	if title == "" && prereq.IsRange(course) {
		title = rangeTitle(course)
	}
	credits := creditsOf(cells)
	record := Record{
		Course:     course,
		Name:       SingleTitle(title),
		Credits:    credits,
		Semester:   c.semesterLabel(),
		Difficulty: Difficulty,
	}

	if len(codes) > 1 {
		record.Alternatives = make([]Alternative, 0, len(codes))
		for _, code := range codes {
			record.Alternatives = append(record.Alternatives, Alternative{
				Course:  code,
				Name:    title,
				Credits: credits,
				Prereqs: c.resolver.Resolve(ctx, code),
			})
		}
		record.Prereqs = record.Alternatives[0].Prereqs
	} else {
		record.Prereqs = c.resolver.Resolve(ctx, course)
	}

	c.add(record)
	return KindCourse
}

func (c *Classifier) semesterLabel() string {
	return strings.TrimSpace(c.year + " " + c.semester)
}

func (c *Classifier) add(record Record) {
	c.records = append(c.records, record)
	c.seen[record.Course] = true
}
