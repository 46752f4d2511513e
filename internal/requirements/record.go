package requirements

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	DefaultCredits = 3
	// Difficulty is a placeholder rating carried on every record.
	Difficulty = 3
)

// Record is one requirement line of a degree program
type Record struct {
	Course               string        `json:"course"`
	Alternatives         []Alternative `json:"alternatives,omitempty"`
	Name                 Title         `json:"name"`
	Credits              int           `json:"credits"`
	Prereqs              string        `json:"prereqs"`
	Semester             string        `json:"semester"`
	Difficulty           int           `json:"difficulty"`
	SelectionRequirement string        `json:"selection_requirement,omitempty"`
	Note                 string        `json:"note,omitempty"`
}

// Alternative is one option of a record that can be satisfied by several courses
type Alternative struct {
	Course  string `json:"course"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
	Prereqs string `json:"prereqs"`
}

// Title is a course title. It encodes as a JSON string, or as a list of strings
// when a record collects several alternative titles.
type Title struct {
	values []string
	list   bool
}

// SingleTitle returns a title holding one string
func SingleTitle(name string) Title {
	return Title{values: []string{name}}
}

// TitleList returns a title for the given names. Exactly one name collapses to a
// single string; any other count encodes as a list.
func TitleList(names []string) Title {
	if len(names) == 1 {
		return SingleTitle(names[0])
	}
	values := make([]string, len(names))
	copy(values, names)
	return Title{values: values, list: true}
}

// IsList reports whether the title encodes as a list
func (t Title) IsList() bool {
	return t.list
}

// Values returns the title strings
func (t Title) Values() []string {
	values := make([]string, len(t.values))
	copy(values, t.values)
	return values
}

// String returns the first title, or "" when there is none
func (t Title) String() string {
	if len(t.values) == 0 {
		return ""
	}
	return t.values[0]
}

// MarshalJSON implements json.Marshaler
func (t Title) MarshalJSON() ([]byte, error) {
	if t.list {
		return marshalUnescaped(t.values)
	}
	return marshalUnescaped(t.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Title) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("decoding title list: %w", err)
		}
		*t = Title{values: values, list: true}
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("decoding title: %w", err)
	}
	*t = SingleTitle(name)
	return nil
}

// Display joins list titles with " / " for human-readable output
func (t Title) Display() string {
	return strings.Join(t.values, " / ")
}

// Program is the persisted document for one degree program: a single-key object
// mapping the program name to its records.
type Program struct {
	Name    string
	Records []Record
}

// MarshalJSON implements json.Marshaler
func (p Program) MarshalJSON() ([]byte, error) {
	records := p.Records
	if records == nil {
		records = []Record{}
	}
	return marshalUnescaped(map[string][]Record{p.Name: records})
}

// marshalUnescaped is json.Marshal without HTML escaping, so "&", "<" and ">"
// in catalog text are written as is
func marshalUnescaped(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Program) UnmarshalJSON(data []byte) error {
	var doc map[string][]Record
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding program document: %w", err)
	}
	if len(doc) != 1 {
		return fmt.Errorf("program document has %d top-level keys, want 1", len(doc))
	}
	for name, records := range doc {
		p.Name = name
		p.Records = records
	}
	return nil
}

// Find returns the record with the given course code
func (p *Program) Find(course string) (*Record, bool) {
	for i := range p.Records {
		if p.Records[i].Course == course {
			return &p.Records[i], true
		}
	}
	return nil, false
}
