// internal/platform/resilience/retryable_fetcher.go
package resilience

import (
	"context"
	"math"
	"sync"
	"time"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/logx"
)

// BreakerConfig configures the per-source breakers.
type BreakerConfig struct {
	Enabled     bool
	Threshold   int
	CoolDown    time.Duration
	HalfOpenMax int
}

// RetryableFetcher wraps an adapter with whole-fetch retries on transient
// errors and one circuit breaker per source name. It keeps the fail-soft
// contract: an open breaker yields no items.
type RetryableFetcher struct {
	inner             ports.ReportingFetcher
	maxRetries        int
	backoffBase       time.Duration
	backoffMultiplier float64
	breakerCfg        BreakerConfig
	logger            logx.Logger

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewRetryableFetcher wraps inner.
func NewRetryableFetcher(
	inner ports.ReportingFetcher,
	maxRetries int,
	backoffBase time.Duration,
	backoffMultiplier float64,
	breakers BreakerConfig,
	logger logx.Logger,
) *RetryableFetcher {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoffBase <= 0 {
		backoffBase = time.Second
	}
	if backoffMultiplier < 1.0 {
		backoffMultiplier = 2.0
	}
	return &RetryableFetcher{
		inner:             inner,
		maxRetries:        maxRetries,
		backoffBase:       backoffBase,
		backoffMultiplier: backoffMultiplier,
		breakerCfg:        breakers,
		logger:            logger.With("component", "retryable-fetcher", "kind", inner.Kind()),
		breakers:          make(map[string]*CircuitBreaker),
	}
}

// Kind returns the wrapped adapter's kind.
func (r *RetryableFetcher) Kind() domain.SourceKind {
	return r.inner.Kind()
}

// Fetch implements ports.Fetcher.
func (r *RetryableFetcher) Fetch(ctx context.Context, src domain.SourceDescriptor) []domain.RawItem {
	items, _ := r.FetchWithReport(ctx, src)
	return items
}

// FetchWithReport implements ports.ReportingFetcher.
func (r *RetryableFetcher) FetchWithReport(ctx context.Context, src domain.SourceDescriptor) ([]domain.RawItem, ports.FetchReport) {
	name := src.Base().Name
	logger := r.logger.With("source", name)
	cb := r.breaker(name)

	if cb != nil && !cb.Allow() {
		logger.Warn("circuit breaker open, skipping source")
		return nil, ports.FetchReport{Err: errors.Wrapf(errors.ErrCircuitOpen, "source %s", name)}
	}

	start := time.Now()
	var (
		items  []domain.RawItem
		report ports.FetchReport
	)
	for attempt := 0; ; attempt++ {
		items, report = r.inner.FetchWithReport(ctx, src)
		if report.Err == nil || attempt >= r.maxRetries || !errors.IsRetryable(report.Err) || ctx.Err() != nil {
			break
		}

		delay := r.backoff(attempt)
		logger.Info("retrying source", "attempt", attempt+1, "delay_ms", delay.Milliseconds(), "error", report.Err.Error())

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
		if ctx.Err() != nil {
			break
		}
	}
	report.Duration = time.Since(start)

	if cb != nil {
		if report.Err != nil {
			cb.RecordFailure()
		} else {
			cb.RecordSuccess()
		}
	}
	return items, report
}

func (r *RetryableFetcher) breaker(name string) *CircuitBreaker {
	if !r.breakerCfg.Enabled {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.breakers[name]
	if !ok {
		cb = NewCircuitBreaker(r.breakerCfg.Threshold, r.breakerCfg.CoolDown, r.breakerCfg.HalfOpenMax)
		r.breakers[name] = cb
	}
	return cb
}

func (r *RetryableFetcher) backoff(attempt int) time.Duration {
	d := time.Duration(float64(r.backoffBase) * math.Pow(r.backoffMultiplier, float64(attempt)))
	if d > time.Minute {
		d = time.Minute
	}
	return d
}

var _ ports.ReportingFetcher = (*RetryableFetcher)(nil)
