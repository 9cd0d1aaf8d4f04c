// internal/core/usecases/fetch_task.go
package usecases

import (
	"context"
	"time"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
)

// FetchTask adapts one source fetch to workerpool.Task.
type FetchTask struct {
	fetcher ports.Fetcher
	src     domain.SourceDescriptor
	weight  int

	// onStart runs on the worker before the fetch.
	onStart func()

	items  []domain.RawItem
	report ports.FetchReport
}

// NewFetchTask creates a task fetching src with fetcher.
func NewFetchTask(fetcher ports.Fetcher, src domain.SourceDescriptor, weight int) *FetchTask {
	return &FetchTask{fetcher: fetcher, src: src, weight: weight}
}

// Execute runs the fetch. An adapter-reported failure stays in Report();
// Execute itself only fails by panicking.
func (t *FetchTask) Execute(ctx context.Context) error {
	if t.onStart != nil {
		t.onStart()
	}

	start := time.Now()
	if rf, ok := t.fetcher.(ports.ReportingFetcher); ok {
		t.items, t.report = rf.FetchWithReport(ctx, t.src)
	} else {
		t.items = t.fetcher.Fetch(ctx, t.src)
		t.report = ports.FetchReport{Items: len(t.items)}
	}
	t.report.Duration = time.Since(start)
	return nil
}

// Priority returns the descriptor priority.
func (t *FetchTask) Priority() int {
	return t.src.Base().Priority
}

// Weight returns the adapter's estimated cost.
func (t *FetchTask) Weight() int {
	return t.weight
}

// Name returns the source name.
func (t *FetchTask) Name() string {
	return t.src.Base().Name
}

// Items returns what the fetch produced.
func (t *FetchTask) Items() []domain.RawItem {
	return t.items
}

// Report returns the fetch diagnostics.
func (t *FetchTask) Report() ports.FetchReport {
	return t.report
}
