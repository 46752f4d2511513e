package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/catalog-courses/internal/pipeline"
	"github.com/pfrederiksen/catalog-courses/internal/requirements"
)

func sampleResult() *OutputResult {
	return &OutputResult{
		ScrapedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Programs: []ProgramResult{
			{
				Key:     "ce",
				Program: "Computer Engineering",
				Records: 42,
				Path:    "data/ce_courses.json",
				Added:   []string{"CSCE 181"},
				Removed: []string{"PHYS 206"},
				Changed: []pipeline.Change{{Course: "CSCE 120", Field: "credits", Old: "3", New: "4"}},
			},
			{
				Key:     "math-minor",
				Program: "Math Minor",
				Records: 1,
				Path:    "data/math_minor_courses.json",
			},
		},
	}
}

func TestWriteOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), FormatText, false); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}

	want := "Computer Engineering: 42 records saved to data/ce_courses.json\n" +
		"Math Minor: 1 record saved to data/math_minor_courses.json\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteOutput_TextVerbose(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), FormatText, true); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"  + CSCE 181\n",
		"  - PHYS 206\n",
		"  ~ CSCE 120 credits: \"3\" -> \"4\"\n",
		"  No changes since the previous scrape.\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), FormatJSON, false); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}

	var decoded OutputResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Programs) != 2 || decoded.Programs[0].Records != 42 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteOutput_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, &OutputResult{}, FormatText, false); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}
	if buf.String() != "No programs scraped.\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	if err := WriteOutput(&bytes.Buffer{}, sampleResult(), OutputFormat("yaml"), false); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSortRecords(t *testing.T) {
	records := func() []requirements.Record {
		return []requirements.Record{
			{Course: "MATH 151", Credits: 4},
			{Course: "ENGL 103", Credits: 3},
			{Course: "CSCE 120", Credits: 4},
		}
	}
	courses := func(rs []requirements.Record) string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Course)
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		order SortOrder
		want  string
	}{
		{SortByCatalog, "MATH 151,ENGL 103,CSCE 120"},
		{SortByCourse, "CSCE 120,ENGL 103,MATH 151"},
		{SortByCredits, "CSCE 120,MATH 151,ENGL 103"},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			rs := records()
			sortRecords(rs, tt.order)
			if got := courses(rs); got != tt.want {
				t.Errorf("order = %s, want %s", got, tt.want)
			}
		})
	}

	if validSortOrder("difficulty") {
		t.Error("validSortOrder(difficulty) = true")
	}
}

func TestCourseLabel(t *testing.T) {
	single := requirements.Record{Course: "ENGL 103"}
	if got := courseLabel(single); got != "ENGL 103" {
		t.Errorf("courseLabel() = %q", got)
	}

	sel := requirements.Record{
		Course: "CSCE 410",
		Alternatives: []requirements.Alternative{
			{Course: "CSCE 410"},
			{Course: "CSCE 411"},
		},
	}
	if got := courseLabel(sel); got != "CSCE 410 / CSCE 411" {
		t.Errorf("courseLabel() = %q", got)
	}
}

func TestWriteRecordTable(t *testing.T) {
	doc := &requirements.Program{Name: "Math Minor", Records: []requirements.Record{
		{Course: "MATH 151", Name: requirements.SingleTitle("Engineering Mathematics I"), Credits: 4},
		{Course: "MATH 152", Name: requirements.SingleTitle("Engineering Mathematics II"), Credits: 4, Prereqs: "MATH 151"},
	}}

	var buf bytes.Buffer
	writeRecordTable(&buf, doc)

	out := buf.String()
	for _, want := range []string{"Math Minor", "Engineering Mathematics II", "MATH 151", "8"} {
		if !strings.Contains(strings.ToLower(out), strings.ToLower(want)) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
