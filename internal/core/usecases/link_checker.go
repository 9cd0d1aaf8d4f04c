// internal/core/usecases/link_checker.go
package usecases

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/logx"
)

// LinkChecker probes the application links of approved records and writes
// broken/lastChecked. It never touches any other field, and each write is
// one store call, so it can run beside a sweep.
type LinkChecker struct {
	repo        ports.LinkRepository
	prober      ports.LinkProber
	concurrency int
	recheck     time.Duration
	delay       time.Duration
	now         func() time.Time
	recorder    ports.Recorder
	events      *broadcaster
	logger      logx.Logger
}

// LinkCheckerOptions configures a LinkChecker.
type LinkCheckerOptions struct {
	Repository ports.LinkRepository
	Prober     ports.LinkProber
	// Concurrency bounds simultaneous probes (default 4).
	Concurrency int
	// Recheck skips records checked more recently than this (default 24h).
	Recheck time.Duration
	// Delay is the pause after each probe (default 100ms, negative disables).
	Delay     time.Duration
	Recorder  ports.Recorder
	Observers []ports.Notifier
	Logger    logx.Logger
}

// NewLinkChecker creates a LinkChecker.
func NewLinkChecker(opts LinkCheckerOptions) *LinkChecker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Recheck <= 0 {
		opts.Recheck = 24 * time.Hour
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	} else if opts.Delay == 0 {
		opts.Delay = 100 * time.Millisecond
	}
	if opts.Recorder == nil {
		opts.Recorder = ports.NopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	logger := opts.Logger.With("component", "link-checker")
	return &LinkChecker{
		repo:        opts.Repository,
		prober:      opts.Prober,
		concurrency: opts.Concurrency,
		recheck:     opts.Recheck,
		delay:       opts.Delay,
		now:         time.Now,
		recorder:    opts.Recorder,
		events:      newBroadcaster(opts.Observers, logger),
		logger:      logger,
	}
}

// CheckAll runs one pass. Only listing the candidates or cancellation
// returns an error; a failed write is logged and the record counted as
// skipped.
func (c *LinkChecker) CheckAll(ctx context.Context) (domain.LinkReport, error) {
	var report domain.LinkReport
	defer c.events.wait()

	candidates, err := c.repo.ListLinkCandidates(ctx)
	if err != nil {
		return report, errors.Wrap(err, "list link candidates")
	}

	c.logger.Info("checking links", "candidates", len(candidates))
	c.events.notify(ctx, ports.NewEvent(ports.EventTypeLinkCheckStarted, "link-checker", len(candidates)))

	var mu sync.Mutex
	count := func(f func(r *domain.LinkReport)) {
		mu.Lock()
		f(&report)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	now := c.now()
	for _, cand := range candidates {
		if now.Sub(cand.LastChecked) < c.recheck {
			count(func(r *domain.LinkReport) { r.Skipped++ })
			continue
		}
		if gctx.Err() != nil {
			break
		}

		cand := cand
		g.Go(func() error {
			broken := c.prober.Probe(gctx, cand.ApplicationURL) != nil
			if gctx.Err() != nil {
				return gctx.Err()
			}

			status := domain.LinkStatus{Broken: broken, LastChecked: c.now().UTC()}
			if err := c.repo.SetLinkStatus(gctx, cand.ID, status); err != nil {
				c.logger.Warn("link status not saved", "id", cand.ID, "error", err.Error())
				count(func(r *domain.LinkReport) { r.Skipped++ })
			} else {
				count(func(r *domain.LinkReport) {
					r.Checked++
					if broken {
						r.Broken++
					} else {
						r.Valid++
					}
				})
				if broken {
					c.logger.Debug("broken link", "id", cand.ID, "title", cand.Title, "url", cand.ApplicationURL)
				}
			}

			return sleep(gctx, c.delay)
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	c.recorder.ObserveLinks(report)
	c.logger.Info("link check completed",
		"checked", report.Checked,
		"valid", report.Valid,
		"broken", report.Broken,
		"skipped", report.Skipped,
	)
	c.events.notify(ctx, ports.NewEvent(ports.EventTypeLinkCheckDone, "link-checker", ports.LinkCheckEvent{Report: report}))
	return report, err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
