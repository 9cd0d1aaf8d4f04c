// internal/platform/registry/fetcher_registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/logx"
)

// FetcherRegistry maps each source kind to the factory of its adapter.
// Adapters register themselves from init() in their package.
type FetcherRegistry struct {
	mu        sync.RWMutex
	factories map[domain.SourceKind]FetcherFactory
	metadata  map[domain.SourceKind]ports.FetcherMetadata
	logger    logx.Logger
}

// Deps is what a factory receives to build an adapter.
type Deps struct {
	HTTP   ports.HTTPGetter
	Config ports.FetcherConfig
	Logger logx.Logger
}

// FetcherFactory builds one adapter.
type FetcherFactory func(deps Deps) (ports.Fetcher, error)

var (
	globalRegistry *FetcherRegistry
	once           sync.Once
)

// Global returns the process-wide registry used by init() registrations.
func Global() *FetcherRegistry {
	once.Do(func() {
		globalRegistry = NewFetcherRegistry(logx.NewNop())
	})
	return globalRegistry
}

// NewFetcherRegistry creates an empty registry.
func NewFetcherRegistry(logger logx.Logger) *FetcherRegistry {
	return &FetcherRegistry{
		factories: make(map[domain.SourceKind]FetcherFactory),
		metadata:  make(map[domain.SourceKind]ports.FetcherMetadata),
		logger:    logger.With("component", "fetcher-registry"),
	}
}

// Register adds the factory for kind.
func (r *FetcherRegistry) Register(kind domain.SourceKind, factory FetcherFactory, meta ports.FetcherMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !kind.IsValid() {
		return fmt.Errorf("cannot register unknown kind %q", kind)
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for kind %s", kind)
	}
	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("kind %s is already registered", kind)
	}

	meta.Kind = kind
	r.factories[kind] = factory
	r.metadata[kind] = meta
	r.logger.Debug("fetcher registered", "kind", kind)
	return nil
}

// Build constructs one adapter per registered kind.
func (r *FetcherRegistry) Build(deps Deps) (map[domain.SourceKind]ports.Fetcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if deps.HTTP == nil {
		return nil, fmt.Errorf("http getter cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = logx.NewNop()
	}

	out := make(map[domain.SourceKind]ports.Fetcher, len(r.factories))
	for kind, factory := range r.factories {
		f, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s fetcher: %w", kind, err)
		}
		out[kind] = f
	}

	deps.Logger.Debug("fetchers built", "count", len(out))
	return out, nil
}

// List returns the registered kinds in name order.
func (r *FetcherRegistry) List() []domain.SourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]domain.SourceKind, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// GetMetadata returns the metadata registered for kind.
func (r *FetcherRegistry) GetMetadata(kind domain.SourceKind) (ports.FetcherMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.metadata[kind]
	return meta, ok
}
