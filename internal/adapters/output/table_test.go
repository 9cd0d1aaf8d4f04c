// internal/adapters/output/table_test.go
package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pterm/pterm"

	"oppsync/internal/core/domain"
)

func init() {
	pterm.DisableStyling()
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintTable(&buf, sampleSummary()); err != nil {
		t.Fatalf("PrintTable() failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"SOURCE", "board", "sheet", "connection refused", "TOTAL", "1 failed", "120ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintTable_ValidationErrors(t *testing.T) {
	s := domain.NewSummary()
	s.ValidationErrors = map[string][]string{
		"scraper": {"markup source requires item, title, and link selectors"},
		"api":     {"invalid URL format"},
	}

	var buf bytes.Buffer
	if err := PrintTable(&buf, s); err != nil {
		t.Fatalf("PrintTable() failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "invalid source configuration") {
		t.Errorf("missing heading:\n%s", out)
	}
	if strings.Index(out, "api") > strings.Index(out, "scraper") {
		t.Errorf("sources should be sorted:\n%s", out)
	}
	if strings.Contains(out, "CREATED") {
		t.Errorf("per-source table should not be printed:\n%s", out)
	}
}

func TestTableExporter(t *testing.T) {
	var buf bytes.Buffer
	exp := TableExporter{W: &buf}
	if exp.Name() != "table" {
		t.Errorf("Name() = %q", exp.Name())
	}
	if err := exp.Export(sampleSummary()); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("nothing written")
	}
}
