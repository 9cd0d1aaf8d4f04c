// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"sync"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
)

// stubFetcher is a ports.ReportingFetcher returning canned items per source name.
type stubFetcher struct {
	kind  domain.SourceKind
	mu    sync.Mutex
	items map[string][]domain.RawItem
	errs  map[string]error
	calls map[string]int
	panic string
}

func newStubFetcher(kind domain.SourceKind) *stubFetcher {
	return &stubFetcher{
		kind:  kind,
		items: make(map[string][]domain.RawItem),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (s *stubFetcher) with(source string, items ...domain.RawItem) *stubFetcher {
	s.items[source] = items
	return s
}

func (s *stubFetcher) failing(source string, err error) *stubFetcher {
	s.errs[source] = err
	return s
}

func (s *stubFetcher) Kind() domain.SourceKind { return s.kind }

func (s *stubFetcher) Fetch(ctx context.Context, src domain.SourceDescriptor) []domain.RawItem {
	items, _ := s.FetchWithReport(ctx, src)
	return items
}

func (s *stubFetcher) FetchWithReport(_ context.Context, src domain.SourceDescriptor) ([]domain.RawItem, ports.FetchReport) {
	name := src.Base().Name
	s.mu.Lock()
	s.calls[name]++
	items := s.items[name]
	err := s.errs[name]
	s.mu.Unlock()

	if s.panic != "" && s.panic == name {
		panic("adapter exploded")
	}
	if err != nil {
		return []domain.RawItem{}, ports.FetchReport{Err: err}
	}
	out := make([]domain.RawItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].Source = name
	}
	return out, ports.FetchReport{Items: len(out)}
}

func (s *stubFetcher) callCount(source string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[source]
}

// mockNotifier records events.
type mockNotifier struct {
	mu         sync.Mutex
	notifyFunc func(ctx context.Context, event ports.Event) error
	events     []ports.Event
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{events: []ports.Event{}}
}

func (m *mockNotifier) Notify(ctx context.Context, event ports.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, event)
	}
	return nil
}

func (m *mockNotifier) Close() error { return nil }

// getEventsByType returns events filtered by type
func (m *mockNotifier) getEventsByType(eventType ports.EventType) []ports.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	var filtered []ports.Event
	for _, e := range m.events {
		if e.Type == eventType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// recordingRecorder counts observations.
type recordingRecorder struct {
	mu       sync.Mutex
	outcomes map[domain.Outcome]int
	sources  []domain.SourceResult
	links    []domain.LinkReport
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{outcomes: make(map[domain.Outcome]int)}
}

func (r *recordingRecorder) ObserveItem(_ string, o domain.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[o]++
}

func (r *recordingRecorder) ObserveSource(res domain.SourceResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, res)
}

func (r *recordingRecorder) ObserveLinks(rep domain.LinkReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links = append(r.links, rep)
}

// stubProber fails for the URLs in broken.
type stubProber struct {
	mu     sync.Mutex
	broken map[string]bool
	probed []string
}

func (p *stubProber) Probe(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probed = append(p.probed, url)
	if p.broken[url] {
		return context.DeadlineExceeded
	}
	return nil
}

func feedSource(name string) domain.FeedSource {
	return domain.FeedSource{SourceBase: domain.SourceBase{Name: name, URL: "https://" + name + ".example.org/feed"}}
}

func rawItem(title, url string) domain.RawItem {
	return domain.RawItem{Title: title, URL: url}
}
