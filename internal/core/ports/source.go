// internal/core/ports/source.go
package ports

import (
	"context"
	"time"

	"oppsync/internal/core/domain"
)

// Fetcher is the contract shared by every fetch adapter.
//
// Fetch never fails past its own boundary: any network, parse or format
// problem is logged and reported as an empty slice, so one broken source
// cannot abort the sweep.
type Fetcher interface {
	// Kind returns the descriptor kind this adapter handles.
	Kind() domain.SourceKind

	// Fetch converts the source payload into raw items.
	Fetch(ctx context.Context, src domain.SourceDescriptor) []domain.RawItem
}

// FetchReport carries diagnostics an adapter can expose about its last run
// without breaking the fail-soft contract.
type FetchReport struct {
	Items    int
	Err      error
	Duration time.Duration
}

// ReportingFetcher is implemented by adapters that keep the last fetch error.
type ReportingFetcher interface {
	Fetcher

	// FetchWithReport behaves like Fetch and also returns what went wrong.
	FetchWithReport(ctx context.Context, src domain.SourceDescriptor) ([]domain.RawItem, FetchReport)
}

// FetcherConfig is what a factory receives when building an adapter.
type FetcherConfig struct {
	// Timeout bounds one adapter network call.
	Timeout time.Duration

	// UserAgent sent on every request.
	UserAgent string

	// MaxBodyBytes caps how much of a response is read.
	MaxBodyBytes int64
}

// DefaultFetcherConfig returns the defaults used by the binary.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:      30 * time.Second,
		UserAgent:    "oppsync/1.0 (+https://github.com/oppsync/oppsync)",
		MaxBodyBytes: 5 << 20,
	}
}

// Response is a fetched HTTP payload.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	// FromCache is set when a 304 replayed the cached body.
	FromCache bool
}

// HTTPGetter is the transport adapters fetch through.
type HTTPGetter interface {
	Get(ctx context.Context, url string, headers map[string]string) (*Response, error)
}

// LinkProber checks that a URL answers with a non-error status.
type LinkProber interface {
	Probe(ctx context.Context, url string) error
}

// FetcherMetadata describes a registered adapter.
type FetcherMetadata struct {
	Kind        domain.SourceKind
	Description string
	// Weight is the estimated cost of one fetch (0-100), used for scheduling.
	Weight int
}
