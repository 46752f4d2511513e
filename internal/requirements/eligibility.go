package requirements

import (
	"regexp"
	"strings"
)

var prereqCodePattern = regexp.MustCompile(`([A-Z]{2,4})\s+(\d{3})`)

// Eligibility is the outcome of checking a course's prerequisites against a set
// of completed courses
type Eligibility struct {
	Course   string
	Required []string
	Met      []string
	Missing  []string
}

// CanTake reports whether every prerequisite code has been completed
func (e Eligibility) CanTake() bool {
	return len(e.Missing) == 0
}

// PrereqCodes returns the distinct course codes mentioned in prerequisite text,
// in order of appearance. Alternatives joined by "or" are all listed.
func PrereqCodes(prereqs string) []string {
	codes := make([]string, 0)
	seen := make(map[string]bool)

	for _, m := range prereqCodePattern.FindAllStringSubmatch(normalizeCellText(prereqs), -1) {
		code := m[1] + " " + m[2]
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}

// PrereqsOf returns the prerequisite text stored for course, looking at
// selection alternatives when no record is keyed by it
func (p *Program) PrereqsOf(course string) (string, bool) {
	if record, ok := p.Find(course); ok {
		return record.Prereqs, true
	}
	for _, record := range p.Records {
		for _, alt := range record.Alternatives {
			if alt.Course == course {
				return alt.Prereqs, true
			}
		}
	}
	return "", false
}

// CheckPrerequisites compares the codes named in prereqs with the completed
// courses. Completed entries are normalized, so "math151" matches "MATH 151".
func CheckPrerequisites(course, prereqs string, completed []string) Eligibility {
	done := make(map[string]bool, len(completed))
	for _, c := range completed {
		if code, ok := ExtractCode(strings.ToUpper(c)); ok {
			done[code] = true
		}
	}

	result := Eligibility{
		Course:   course,
		Required: PrereqCodes(prereqs),
		Met:      make([]string, 0),
		Missing:  make([]string, 0),
	}
	for _, code := range result.Required {
		if done[code] {
			result.Met = append(result.Met, code)
		} else {
			result.Missing = append(result.Missing, code)
		}
	}
	return result
}
