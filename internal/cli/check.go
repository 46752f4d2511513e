package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/catalog-courses/internal/requirements"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <program> <course>",
		Short: "Check whether a course's prerequisites are met",
		Long: `Check a course's prerequisites against the courses already completed.
Every course code named in the saved prerequisite text counts as required.
Exits with code 2 when prerequisites are missing.`,
		Example: `  catalog-courses check ce "CSCE 313" --completed "CSCE 221,CSCE 222"`,
		Args:    cobra.ExactArgs(2),
		RunE:    runCheck,
	}

	cmd.Flags().StringSliceVar(&flagCompleted, "completed", nil, "Completed course codes, comma separated")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	_, doc, err := loadDocument(cfg, args[0])
	if err != nil {
		return err
	}

	course := strings.TrimSpace(args[1])
	if code, ok := requirements.ExtractCode(strings.ToUpper(course)); ok {
		course = code
	}

	prereqs, found := doc.PrereqsOf(course)
	if !found {
		return fmt.Errorf("course %s not found in %s", course, doc.Name)
	}

	result := requirements.CheckPrerequisites(course, prereqs, flagCompleted)
	writeEligibility(cmd.OutOrStdout(), result, prereqs, flagVerbose)

	if !result.CanTake() {
		return errPrereqsMissing
	}
	return nil
}

func writeEligibility(w io.Writer, e requirements.Eligibility, prereqs string, verbose bool) {
	switch {
	case len(e.Required) == 0:
		fmt.Fprintf(w, "%s has no course prerequisites. You can take it.\n", e.Course)
	case e.CanTake():
		fmt.Fprintf(w, "You can take %s. Prerequisites met: %s\n", e.Course, strings.Join(e.Met, ", "))
	default:
		fmt.Fprintf(w, "Cannot take %s. Missing prerequisites: %s\n", e.Course, strings.Join(e.Missing, ", "))
	}

	if verbose && prereqs != "" {
		fmt.Fprintf(w, "  Catalog text: %s\n", prereqs)
	}
}
