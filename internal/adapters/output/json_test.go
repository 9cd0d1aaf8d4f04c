// internal/adapters/output/json_test.go
package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"oppsync/internal/core/domain"
)

func sampleSummary() *domain.Summary {
	s := domain.NewSummary()
	s.StartedAt = time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	s.Add(domain.SourceResult{
		Name: "board", Kind: domain.SourceKindFeed, Status: domain.SourceStatusSuccess,
		Items: 3, Created: 2, Updated: 1, FetchTime: 120 * time.Millisecond,
	})
	s.Add(domain.SourceResult{
		Name: "sheet", Kind: domain.SourceKindTabular, Status: domain.SourceStatusError,
		Error: "fetch failed: connection refused",
	})
	s.Finalize()
	return s
}

func TestWriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	path, err := WriteJSON(dir, sampleSummary())
	if err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}

	if filepath.Base(path) != "oppsync_sweep_20260501_083000.json" {
		t.Errorf("unexpected file name %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["totalCreated"] != float64(2) {
		t.Errorf("totalCreated = %v, want 2", decoded["totalCreated"])
	}
	if decoded["totalErrors"] != float64(1) {
		t.Errorf("totalErrors = %v, want 1", decoded["totalErrors"])
	}
	sources, ok := decoded["sources"].([]any)
	if !ok || len(sources) != 2 {
		t.Fatalf("sources = %v, want 2 entries", decoded["sources"])
	}
	if _, ok := decoded["validationErrors"]; ok {
		t.Error("validationErrors should be omitted when empty")
	}
}

func TestJSONExporter(t *testing.T) {
	dir := t.TempDir()
	exp := JSONExporter{Dir: dir}

	if exp.Name() != "json" {
		t.Errorf("Name() = %q", exp.Name())
	}
	if err := exp.Export(sampleSummary()); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
}

func TestEncodeJSON_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, sampleSummary(), false); err != nil {
		t.Fatalf("EncodeJSON() failed: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("compact output should be one line, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"status":"error"`) {
		t.Errorf("missing source status in %s", buf.String())
	}
}
