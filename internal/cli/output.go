package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/eshaffer321/attachment-matcher/internal/application/reconcile"
)

// PrintHeader prints the application header
func PrintHeader(w io.Writer, runID, source string) {
	fmt.Fprintf(w, "match-report: run %s (source: %s)\n\n", runID, source)
}

// PrintReport prints both comparison tables, any reference conflicts and
// the summary line
func PrintReport(w io.Writer, report *reconcile.Report) {
	fmt.Fprintln(w, "Find attachments")
	printRows(w, []string{"Transaction", "Expected Att", "Found Att", "Result"},
		"Transaction", "Attachment", report.AttachmentRows)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Find transactions")
	printRows(w, []string{"Attachment", "Expected Tx", "Found Tx", "Result"},
		"Attachment", "Transaction", report.TransactionRows)

	if len(report.Conflicts) > 0 {
		fmt.Fprintln(w, "\nReference conflicts (first in order wins):")
		for _, c := range report.Conflicts {
			ids := make([]string, len(c.IDs))
			for i, id := range c.IDs {
				ids[i] = fmt.Sprintf("%d", id)
			}
			fmt.Fprintf(w, "  - %s %s: %s\n", c.Kind, c.Reference, strings.Join(ids, ", "))
		}
	}

	PrintSummary(w, report)
}

// PrintSummary prints the pass/fail counts
func PrintSummary(w io.Writer, report *reconcile.Report) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Summary: %s\n", report.Summary())
	if report.Passed() {
		fmt.Fprintln(w, "\nAll expectations held.")
	}
}

func printRows(w io.Writer, header []string, primaryKind, candidateKind string, rows []reconcile.Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	for _, row := range rows {
		table.Append([]string{
			describe(primaryKind, &row.PrimaryID),
			describe(candidateKind, row.ExpectedID),
			describe(candidateKind, row.FoundID),
			result(row),
		})
	}
	table.Render()
}

// describe renders "Kind (id=N)", or ∅ when there is no record
func describe(kind string, id *int64) string {
	if id == nil {
		return reconcile.FormatID(nil)
	}
	return fmt.Sprintf("%s (id=%d)", kind, *id)
}

func result(row reconcile.Row) string {
	if !row.Passed {
		return "❌"
	}
	if row.FoundID == nil {
		return "✅"
	}
	if row.Score.Total > 0 {
		return fmt.Sprintf("✅ %s %d", row.Reason, row.Score.Total)
	}
	return fmt.Sprintf("✅ %s", row.Reason)
}
