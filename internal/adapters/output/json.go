// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"oppsync/internal/core/domain"
)

// JSONExporter writes each summary to a timestamped file in Dir.
type JSONExporter struct {
	Dir string
}

// Name implements ports.Exporter.
func (JSONExporter) Name() string { return "json" }

// Export implements ports.Exporter.
func (e JSONExporter) Export(summary *domain.Summary) error {
	_, err := WriteJSON(e.Dir, summary)
	return err
}

// WriteJSON writes summary to dir and returns the file path. The file name
// carries the sweep start time.
func WriteJSON(dir string, summary *domain.Summary) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("oppsync_sweep_%s.json", summary.StartedAt.UTC().Format("20060102_150405"))
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := EncodeJSON(f, summary, true); err != nil {
		return "", err
	}
	return path, nil
}

// EncodeJSON writes summary to w.
func EncodeJSON(w io.Writer, summary *domain.Summary, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
