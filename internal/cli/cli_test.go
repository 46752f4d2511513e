package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/catalog-courses/internal/requirements"
)

const testProgramPage = `<html><body>
<table class="sc_plangrid">
<tr class="plangridyear"><th class="year" colspan="3">Junior Year</th></tr>
<tr class="plangridterm"><th class="hourscol">Fall</th><th>Semester Credit Hours</th></tr>
<tr><td class="codecol">ENGL 103</td><td class="titlecol">Introduction to Rhetoric and Composition</td><td class="hourscol">3</td></tr>
<tr><td class="codecol">CSCE 313</td><td class="titlecol">Introduction to Computer Systems</td><td class="hourscol">4</td></tr>
</table>
</body></html>`

// newCatalogServer serves a program page at /program and course search pages
// at /search/
func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/program", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testProgramPage))
	})
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("P") {
		case "CSCE 313":
			_, _ = w.Write([]byte(`<html><body><div class="courseblock"><p>CSCE 313 Introduction to Computer Systems</p><p>Prerequisite: CSCE 221 and CSCE 222.</p></div></body></html>`))
		default:
			_, _ = w.Write([]byte(`<html><body><p>Composition and rhetoric</p></body></html>`))
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// writeConfig writes a config that points a "test-program" at the server
func writeConfig(t *testing.T, serverURL string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.json5")
	content := fmt.Sprintf(`{
		search_url: %q,
		programs: {
			"test-program": {url: %q},
		},
	}`, serverURL+"/search/?P=", serverURL+"/program")

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// run executes the root command and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestScrapeListCheck(t *testing.T) {
	server := newCatalogServer(t)
	configPath := writeConfig(t, server.URL)
	dataDir := t.TempDir()
	common := []string{"--config", configPath, "--data-dir", dataDir}

	out, err := run(t, append([]string{"scrape", "--program", "test-program", "--delay", "0s"}, common...)...)
	if err != nil {
		t.Fatalf("scrape error = %v", err)
	}
	docPath := filepath.Join(dataDir, "test_program_courses.json")
	if want := "Test Program: 2 records saved to " + docPath; !strings.Contains(out, want) {
		t.Errorf("scrape output = %q, want %q", out, want)
	}

	data, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var doc requirements.Program
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("saved document is not valid: %v", err)
	}
	record, ok := doc.Find("CSCE 313")
	if !ok {
		t.Fatal("CSCE 313 missing from saved document")
	}
	if record.Prereqs != "CSCE 221 and CSCE 222" || record.Semester != "Junior Year Fall" || record.Credits != 4 {
		t.Errorf("CSCE 313 = %+v", record)
	}

	// a second scrape of an unchanged page reports no changes
	out, err = run(t, append([]string{"--program", "test-program", "--delay", "0s", "--verbose"}, common...)...)
	if err != nil {
		t.Fatalf("root scrape error = %v", err)
	}
	if !strings.Contains(out, "No changes since the previous scrape.") {
		t.Errorf("verbose output = %q", out)
	}

	out, err = run(t, append([]string{"list", "test-program"}, common...)...)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	// headers and footers may be upper-cased by the table style
	for _, want := range []string{"Test Program", "ENGL 103", "CSCE 313", "Junior Year Fall", "2 records"} {
		if !strings.Contains(strings.ToLower(out), strings.ToLower(want)) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, append([]string{"check", "test-program", "csce313", "--completed", "CSCE 221,csce 222"}, common...)...)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(out, "You can take CSCE 313. Prerequisites met: CSCE 221, CSCE 222") {
		t.Errorf("check output = %q", out)
	}

	out, err = run(t, append([]string{"check", "test-program", "CSCE 313", "--completed", "CSCE 221"}, common...)...)
	if !errors.Is(err, errPrereqsMissing) {
		t.Fatalf("check error = %v, want errPrereqsMissing", err)
	}
	if !strings.Contains(out, "Missing prerequisites: CSCE 222") {
		t.Errorf("check output = %q", out)
	}

	out, err = run(t, append([]string{"check", "test-program", "ENGL 103"}, common...)...)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(out, "ENGL 103 has no course prerequisites") {
		t.Errorf("check output = %q", out)
	}

	if _, err := run(t, append([]string{"check", "test-program", "HIST 105"}, common...)...); err == nil {
		t.Error("check of unknown course expected error")
	}
}

func TestScrape_FetchFailureWritesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	configPath := writeConfig(t, server.URL)
	dataDir := t.TempDir()

	_, err := run(t, "scrape", "--program", "test-program", "--delay", "0s", "--config", configPath, "--data-dir", dataDir)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("scrape error = %v, want status 503", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "test_program_courses.json")); !os.IsNotExist(err) {
		t.Errorf("document written after fetch failure: %v", err)
	}
}

func TestScrape_InvalidArguments(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing.json5")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown program", []string{"scrape", "--program", "history"}, "unknown program"},
		{"bad format", []string{"scrape", "--format", "xml"}, "invalid format"},
		{"bad log level", []string{"scrape", "--log-level", "loud"}, "invalid log level"},
		{"bad sort", []string{"list", "ce", "--sort", "difficulty"}, "invalid sort order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--config", configPath, "--data-dir", t.TempDir())
			_, err := run(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestList_NoDocument(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing.json5")

	_, err := run(t, "list", "ce", "--config", configPath, "--data-dir", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "run scrape --program ce first") {
		t.Errorf("error = %v, want hint to scrape first", err)
	}
}

func TestList_JSON(t *testing.T) {
	server := newCatalogServer(t)
	configPath := writeConfig(t, server.URL)
	dataDir := t.TempDir()

	if _, err := run(t, "scrape", "--program", "test-program", "--delay", "0s", "--config", configPath, "--data-dir", dataDir); err != nil {
		t.Fatalf("scrape error = %v", err)
	}

	out, err := run(t, "list", "test-program", "--format", "json", "--sort", "credits", "--config", configPath, "--data-dir", dataDir)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}

	var doc requirements.Program
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("list output is not a program document: %v\n%s", err, out)
	}
	if len(doc.Records) != 2 || doc.Records[0].Course != "CSCE 313" {
		t.Errorf("records = %+v, want CSCE 313 first", doc.Records)
	}
}
