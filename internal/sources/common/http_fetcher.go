// Package common provides shared plumbing for the fetch adapters.
package common

import (
	"context"
	"fmt"
	"time"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/logx"
)

// Parser turns one fetched payload into raw items.
type Parser func(ctx context.Context, src domain.SourceDescriptor, resp *ports.Response) ([]domain.RawItem, error)

// HeaderFunc returns the request headers for a descriptor.
type HeaderFunc func(src domain.SourceDescriptor) map[string]string

// BaseHTTPFetcher runs the fetch-then-parse cycle shared by every adapter
// and enforces the fail-soft boundary: errors and panics are logged and
// reported, never returned past Fetch.
//
// Usage:
//  1. Embed *BaseHTTPFetcher in the adapter
//  2. Pass the adapter's Parser to NewBaseHTTPFetcher
//  3. The embedded Fetch/FetchWithReport satisfy ports.ReportingFetcher
type BaseHTTPFetcher struct {
	kind    domain.SourceKind
	http    ports.HTTPGetter
	timeout time.Duration
	parse   Parser
	headers HeaderFunc
	logger  logx.Logger
}

// BaseHTTPConfig configures a BaseHTTPFetcher.
type BaseHTTPConfig struct {
	Kind    domain.SourceKind
	HTTP    ports.HTTPGetter
	Timeout time.Duration
	Parse   Parser
	Headers HeaderFunc
	Logger  logx.Logger
}

// NewBaseHTTPFetcher creates the shared fetcher.
func NewBaseHTTPFetcher(cfg BaseHTTPConfig) *BaseHTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = ports.DefaultFetcherConfig().Timeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.NewNop()
	}
	return &BaseHTTPFetcher{
		kind:    cfg.Kind,
		http:    cfg.HTTP,
		timeout: cfg.Timeout,
		parse:   cfg.Parse,
		headers: cfg.Headers,
		logger:  cfg.Logger.With("component", "fetcher", "kind", string(cfg.Kind)),
	}
}

// Kind implements ports.Fetcher.
func (b *BaseHTTPFetcher) Kind() domain.SourceKind {
	return b.kind
}

// Fetch implements ports.Fetcher.
func (b *BaseHTTPFetcher) Fetch(ctx context.Context, src domain.SourceDescriptor) []domain.RawItem {
	items, _ := b.FetchWithReport(ctx, src)
	return items
}

// FetchWithReport implements ports.ReportingFetcher.
func (b *BaseHTTPFetcher) FetchWithReport(ctx context.Context, src domain.SourceDescriptor) (items []domain.RawItem, report ports.FetchReport) {
	start := time.Now()
	base := src.Base()
	logger := b.logger.With("source", base.Name)

	defer func() {
		if r := recover(); r != nil {
			items = nil
			report.Err = errors.Wrapf(domain.ErrFetch, "adapter panic: %v", r)
		}
		report.Duration = time.Since(start)
		report.Items = len(items)
		if report.Err != nil {
			logger.Warn("fetch failed, source yields no items",
				"url", base.URL,
				"error", report.Err.Error(),
				"duration_ms", report.Duration.Milliseconds(),
			)
			items = []domain.RawItem{}
			return
		}
		logger.Debug("fetch completed", "items", len(items), "duration_ms", report.Duration.Milliseconds())
	}()

	if src.Kind() != b.kind {
		return nil, ports.FetchReport{Err: errors.Wrapf(domain.ErrUnsupportedKind, "%s adapter got %s descriptor", b.kind, src.Kind())}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var headers map[string]string
	if b.headers != nil {
		headers = b.headers(src)
	}

	resp, err := b.http.Get(fetchCtx, base.URL, headers)
	if err != nil {
		return nil, ports.FetchReport{Err: fmt.Errorf("%w: %w", domain.ErrFetch, err)}
	}

	parsed, err := b.parse(fetchCtx, src, resp)
	if err != nil {
		return nil, ports.FetchReport{Err: fmt.Errorf("%w: %w", domain.ErrFetch, err)}
	}

	for i := range parsed {
		parsed[i].Source = base.Name
	}
	return parsed, ports.FetchReport{}
}
