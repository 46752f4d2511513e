package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pfrederiksen/catalog-courses/internal/requirements"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <program>",
		Short: "Show the saved requirements of a program",
		Args:  cobra.ExactArgs(1),
		RunE:  runList,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByCatalog), "Sort order: catalog, course or credits")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	sortOrder := SortOrder(strings.ToLower(flagSort))
	if !validSortOrder(sortOrder) {
		return fmt.Errorf("invalid sort order: %s (must be 'catalog', 'course' or 'credits')", flagSort)
	}

	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	_, doc, err := loadDocument(cfg, args[0])
	if err != nil {
		return err
	}

	sortRecords(doc.Records, sortOrder)

	if format == FormatJSON {
		return writeJSON(cmd.OutOrStdout(), doc)
	}
	writeRecordTable(cmd.OutOrStdout(), doc)
	return nil
}

// writeRecordTable renders a program document as a table
func writeRecordTable(w io.Writer, doc *requirements.Program) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(doc.Name)
	t.AppendHeader(table.Row{"Course", "Name", "Credits", "Semester", "Prereqs"})

	total := 0
	for _, r := range doc.Records {
		t.AppendRow(table.Row{courseLabel(r), r.Name.Display(), r.Credits, r.Semester, r.Prereqs})
		total += r.Credits
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d records", len(doc.Records)), total, "", ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Name", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Prereqs", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// courseLabel lists every alternative of a selection record
func courseLabel(r requirements.Record) string {
	if len(r.Alternatives) == 0 {
		return r.Course
	}
	codes := make([]string, 0, len(r.Alternatives))
	for _, alt := range r.Alternatives {
		codes = append(codes, alt.Course)
	}
	return strings.Join(codes, " / ")
}
