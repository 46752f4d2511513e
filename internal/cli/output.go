package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/catalog-courses/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ProgramResult summarizes the scrape of one program
type ProgramResult struct {
	Key     string            `json:"key"`
	Program string            `json:"program"`
	Records int               `json:"records"`
	Path    string            `json:"path"`
	Added   []string          `json:"added"`
	Removed []string          `json:"removed"`
	Changed []pipeline.Change `json:"changed"`
}

// OutputResult contains data to be output
type OutputResult struct {
	ScrapedAt time.Time       `json:"scraped_at"`
	Programs  []ProgramResult `json:"programs"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText prints one summary line per program. Verbose output adds the
// changes since the previous document.
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if len(result.Programs) == 0 {
		fmt.Fprintln(w, "No programs scraped.")
		return nil
	}

	for _, p := range result.Programs {
		fmt.Fprintf(w, "%s: %d %s saved to %s\n", p.Program, p.Records, pluralize(p.Records, "record", "records"), p.Path)

		if !verbose {
			continue
		}

		if len(p.Added) == 0 && len(p.Removed) == 0 && len(p.Changed) == 0 {
			fmt.Fprintln(w, "  No changes since the previous scrape.")
			continue
		}
		for _, course := range p.Added {
			fmt.Fprintf(w, "  + %s\n", course)
		}
		for _, course := range p.Removed {
			fmt.Fprintf(w, "  - %s\n", course)
		}
		for _, c := range p.Changed {
			fmt.Fprintf(w, "  ~ %s %s: %q -> %q\n", c.Course, c.Field, c.Old, c.New)
		}
	}

	return nil
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
