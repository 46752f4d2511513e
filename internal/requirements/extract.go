package requirements

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pfrederiksen/catalog-courses/internal/catalog"
)

var (
	codePattern       = regexp.MustCompile(`([A-Z]{2,4})\s*(\d+)`)
	optionCodePattern = regexp.MustCompile(`([A-Z]{2,4})\s*(\d+(?:-\d+)?)`)
	orSeparator       = regexp.MustCompile(`\s+or\s+`)
	numberPattern     = regexp.MustCompile(`(\d+)`)

	footnotePattern   = regexp.MustCompile(`\s*\d+\s*,?\s*`)
	footnoteOrPattern = regexp.MustCompile(`\s*\d+\s*or\s*`)
	trailingNumber    = regexp.MustCompile(`\s*\d+\s*$`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	quotaPattern = regexp.MustCompile(`select\s+(\d+)\s+(?:credit\s+)?hours`)
)

var subjectNames = map[string]string{
	"MATH": "Mathematics",
}

// normalizeCellText removes zero-width spaces and turns non-breaking spaces into
// plain spaces.
func normalizeCellText(text string) string {
	text = strings.ReplaceAll(text, "\u200b", "")
	return strings.ReplaceAll(text, "\u00a0", " ")
}

// ExtractCode returns the first course code in text as "LETTERS DIGITS"
func ExtractCode(text string) (string, bool) {
	return matchCode(codePattern, normalizeCellText(text))
}

// extractOptionCode is ExtractCode that also accepts ranges such as "MATH 300-499"
func extractOptionCode(text string) (string, bool) {
	return matchCode(optionCodePattern, normalizeCellText(text))
}

func matchCode(pattern *regexp.Regexp, text string) (string, bool) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1] + " " + m[2], true
}

// ExtractCodes returns every course code of a code cell. Codes joined by " or "
// are alternatives; codes joined by "/" are cross-listings of the same course.
// The first code is canonical. Range codes such as "MATH 300-499" are kept whole.
func ExtractCodes(text string) []string {
	text = normalizeCellText(text)
	codes := make([]string, 0)

	for _, part := range orSeparator.Split(text, -1) {
		for _, piece := range strings.Split(part, "/") {
			if code, ok := matchCode(optionCodePattern, strings.TrimSpace(piece)); ok {
				codes = append(codes, code)
			}
		}
	}

	return codes
}

// CleanTitle strips footnote numbers and formatting artifacts from a title cell
func CleanTitle(text string) string {
	text = strings.TrimSpace(normalizeCellText(text))
	text = footnotePattern.ReplaceAllString(text, " ")
	text = footnoteOrPattern.ReplaceAllString(text, " or ")
	text = trailingNumber.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// titleOf returns the cleaned title from the second cell, or ""
func titleOf(cells []catalog.Cell) string {
	if len(cells) < 2 {
		return ""
	}
	return CleanTitle(cells[1].Text)
}

// creditsOf returns the first integer of the third cell, or DefaultCredits
func creditsOf(cells []catalog.Cell) int {
	if len(cells) < 3 {
		return DefaultCredits
	}
	m := numberPattern.FindString(cells[2].Text)
	if m == "" {
		return DefaultCredits
	}
	credits, err := strconv.Atoi(m)
	if err != nil || credits <= 0 {
		return DefaultCredits
	}
	return credits
}

// codeCell returns the first cell carrying the course code class
func codeCell(cells []catalog.Cell) (catalog.Cell, bool) {
	for _, cell := range cells {
		if cell.HasClass(CodeClass) {
			return cell, true
		}
	}
	return catalog.Cell{}, false
}

// rangeTitle names a range course that has no title of its own
func rangeTitle(code string) string {
	subject, span, _ := strings.Cut(code, " ")
	name, ok := subjectNames[subject]
	if !ok {
		name = subject
	}

	switch span {
	case "300-499":
		return fmt.Sprintf("Upper-level %s Courses", name)
	case "400-499":
		return fmt.Sprintf("Advanced %s Courses", name)
	default:
		return fmt.Sprintf("%s Courses %s", name, span)
	}
}

// selection describes the rule announced by a selection block header
type selection struct {
	requirement string
	credits     int  // required hours when quota is set
	quota       bool // "select N hours" form
}

// parseSelection reports whether row text announces a selection block
func parseSelection(rowText string, quotas bool) (selection, bool) {
	text := strings.ToLower(normalizeCellText(rowText))

	if quotas {
		if m := quotaPattern.FindStringSubmatch(text); m != nil {
			hours, err := strconv.Atoi(m[1])
			if err == nil && hours > 0 {
				return selection{
					requirement: fmt.Sprintf("Select %d credit hours from the following", hours),
					credits:     hours,
					quota:       true,
				}, true
			}
		}
	}

	switch {
	case strings.Contains(text, "select one"):
		return selection{requirement: "Select one from the following"}, true
	case strings.Contains(text, "choose one"), strings.Contains(text, "select from"):
		return selection{requirement: "Select from the following"}, true
	}
	return selection{}, false
}
