// internal/core/ports/exporter.go
package ports

import (
	"oppsync/internal/core/domain"
)

// Exporter writes a sweep summary somewhere (file, terminal).
type Exporter interface {
	// Name identifies the exporter in logs ("json", "table").
	Name() string

	// Export writes the summary.
	Export(summary *domain.Summary) error
}

// Recorder receives per-sweep measurements (Prometheus in the binary).
type Recorder interface {
	ObserveItem(source string, outcome domain.Outcome)
	ObserveSource(result domain.SourceResult)
	ObserveLinks(report domain.LinkReport)
}

// NopRecorder discards measurements.
type NopRecorder struct{}

func (NopRecorder) ObserveItem(string, domain.Outcome) {}
func (NopRecorder) ObserveSource(domain.SourceResult)  {}
func (NopRecorder) ObserveLinks(domain.LinkReport)     {}
