// internal/adapters/output/table.go
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"oppsync/internal/core/domain"
)

// TableExporter prints summaries as a terminal table.
type TableExporter struct {
	W io.Writer
}

// Name implements ports.Exporter.
func (TableExporter) Name() string { return "table" }

// Export implements ports.Exporter.
func (e TableExporter) Export(summary *domain.Summary) error {
	w := e.W
	if w == nil {
		w = os.Stdout
	}
	return PrintTable(w, summary)
}

// PrintTable renders one row per source plus the sweep totals.
func PrintTable(w io.Writer, summary *domain.Summary) error {
	if len(summary.ValidationErrors) > 0 {
		return printValidation(w, summary.ValidationErrors)
	}

	data := pterm.TableData{
		{"SOURCE", "KIND", "STATUS", "ITEMS", "CREATED", "UPDATED", "SKIPPED", "FETCH", "PROCESS", "ERROR"},
	}
	for _, r := range summary.Sources {
		data = append(data, []string{
			r.Name,
			string(r.Kind),
			string(r.Status),
			strconv.Itoa(r.Items),
			strconv.Itoa(r.Created),
			strconv.Itoa(r.Updated),
			strconv.Itoa(r.Skipped),
			round(r.FetchTime),
			round(r.ProcessTime),
			r.Error,
		})
	}
	data = append(data, []string{
		"TOTAL", "", "",
		strconv.Itoa(summary.TotalItems()),
		strconv.Itoa(summary.TotalCreated),
		strconv.Itoa(summary.TotalUpdated),
		strconv.Itoa(summary.TotalSkipped),
		"", round(summary.Duration),
		fmt.Sprintf("%d failed", summary.TotalErrors),
	})

	if err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithWriter(w).
		WithData(data).
		Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func printValidation(w io.Writer, problems map[string][]string) error {
	names := make([]string, 0, len(problems))
	for name := range problems {
		names = append(names, name)
	}
	sort.Strings(names)

	data := pterm.TableData{{"SOURCE", "PROBLEM"}}
	for _, name := range names {
		for _, p := range problems[name] {
			data = append(data, []string{name, p})
		}
	}

	pterm.Fprintln(w, "Sweep stopped: invalid source configuration")
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func round(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}
