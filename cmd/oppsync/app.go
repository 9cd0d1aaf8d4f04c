// cmd/oppsync/app.go
package main

import (
	"context"
	"fmt"
	"os"

	"oppsync/internal/adapters/output"
	"oppsync/internal/adapters/storage/memory"
	"oppsync/internal/adapters/storage/sqlite"
	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/core/usecases"
	"oppsync/internal/normalize"
	"oppsync/internal/platform/config"
	"oppsync/internal/platform/httpclient"
	"oppsync/internal/platform/logx"
	"oppsync/internal/platform/metrics"
	"oppsync/internal/platform/registry"
	"oppsync/internal/platform/resilience"
	"oppsync/internal/platform/ui"
	"oppsync/internal/platform/workerpool"
)

// app holds everything one process needs to run sweeps and link checks.
type app struct {
	cfg       config.Config
	store     ports.Store
	client    *httpclient.Client
	orch      *usecases.Orchestrator
	links     *usecases.LinkChecker
	metrics   *metrics.Metrics
	exporters []ports.Exporter
	observers []ports.Notifier
	logger    logx.Logger
}

func newApp(ctx context.Context, cfg config.Config, descriptors []domain.SourceDescriptor, logger logx.Logger) (*app, error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	client := httpclient.New(httpclient.Config{
		Timeout:      cfg.FetchTimeout,
		MaxRetries:   cfg.Resilience.MaxRetries,
		RetryBackoff: cfg.Resilience.BackoffBase,
		UserAgent:    cfg.HTTP.UserAgent,
		RatePerHost:  cfg.HTTP.RatePerHost,
		Burst:        cfg.HTTP.Burst,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		CacheTTL:     cfg.HTTP.CacheTTL,
	}, logger)

	fetchers, err := buildFetchers(cfg, client, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	weights := make(map[domain.SourceKind]int, len(fetchers))
	for kind := range fetchers {
		if meta, ok := registry.Global().GetMetadata(kind); ok {
			weights[kind] = meta.Weight
		}
	}

	m := metrics.New()

	// The live presenter only makes sense for one interactive sweep.
	var observers []ports.Notifier
	if !cfg.Outputs.TableDisabled && !cfg.Scheduled() {
		observers = append(observers, ui.NewPTermPresenter())
	}

	var exporters []ports.Exporter
	if cfg.Outputs.JSON {
		exporters = append(exporters, output.JSONExporter{Dir: cfg.OutputDir})
	}
	if !cfg.Outputs.TableDisabled {
		exporters = append(exporters, output.TableExporter{W: os.Stdout})
	}

	reconciler := usecases.NewReconciler(usecases.ReconcilerOptions{
		Repository:    store,
		Canonicalizer: normalize.NewCanonicalizer(cfg.Approval),
		ItemTimeout:   cfg.ItemTimeout,
		Logger:        logger,
	})

	orch := usecases.NewOrchestrator(usecases.OrchestratorOptions{
		Sources:    descriptors,
		Fetchers:   fetchers,
		Reconciler: reconciler,
		Weights:    weights,
		Workers:    cfg.Workers,
		Scheduler:  workerpool.SchedulerByName(cfg.Scheduler),
		Recorder:   m,
		Observers:  observers,
		Logger:     logger,
	})

	links := usecases.NewLinkChecker(usecases.LinkCheckerOptions{
		Repository:  store,
		Prober:      client,
		Concurrency: cfg.Links.Concurrency,
		Recheck:     cfg.Links.Recheck,
		Delay:       cfg.Links.Delay,
		Recorder:    m,
		Observers:   observers,
		Logger:      logger,
	})

	return &app{
		cfg:       cfg,
		store:     store,
		client:    client,
		orch:      orch,
		links:     links,
		metrics:   m,
		exporters: exporters,
		observers: observers,
		logger:    logger,
	}, nil
}

func openStore(ctx context.Context, cfg config.Config, logger logx.Logger) (ports.Store, error) {
	if cfg.DryRun {
		logger.Info("dry run, using in-memory store")
		return memory.New(), nil
	}
	store, err := sqlite.Open(ctx, cfg.DBPath, sqlite.DefaultConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.DBPath, err)
	}
	return store, nil
}

// buildFetchers builds every registered adapter and wraps it with retries
// and per-source circuit breakers.
func buildFetchers(cfg config.Config, client ports.HTTPGetter, logger logx.Logger) (map[domain.SourceKind]ports.Fetcher, error) {
	fetchers, err := registry.Global().Build(registry.Deps{
		HTTP: client,
		Config: ports.FetcherConfig{
			Timeout:      cfg.FetchTimeout,
			UserAgent:    cfg.HTTP.UserAgent,
			MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build fetchers: %w", err)
	}
	logger.Debug("adapters registered", "kinds", registry.Global().List())

	breakers := resilience.BreakerConfig{
		Enabled:     cfg.Resilience.CircuitBreakerEnabled,
		Threshold:   cfg.Resilience.CircuitBreakerThreshold,
		CoolDown:    cfg.Resilience.CircuitBreakerTimeout,
		HalfOpenMax: cfg.Resilience.CircuitBreakerHalfOpenMax,
	}

	for kind, f := range fetchers {
		rf, ok := f.(ports.ReportingFetcher)
		if !ok {
			continue
		}
		// The HTTP client already retries single requests; this layer only
		// retries whole fetches and trips the breaker.
		fetchers[kind] = resilience.NewRetryableFetcher(
			rf,
			0,
			cfg.Resilience.BackoffBase,
			cfg.Resilience.BackoffMultiplier,
			breakers,
			logger,
		)
		logger.Debug("wrapped fetcher with resilience",
			"kind", kind,
			"circuit_breaker", breakers.Enabled,
		)
	}
	return fetchers, nil
}

// runSweep runs one sweep under the sweep timeout and exports its summary.
func (a *app) runSweep(ctx context.Context) (*domain.Summary, error) {
	sweepCtx, cancel := withOptionalTimeout(ctx, a.cfg.SweepTimeout)
	defer cancel()

	summary, err := a.orch.IngestAll(sweepCtx)
	if err != nil {
		a.logger.Err(err, "phase", "sweep")
	}
	if summary != nil {
		a.export(summary)
	}
	return summary, err
}

// runLinkCheck runs one link-checker pass.
func (a *app) runLinkCheck(ctx context.Context) int {
	report, err := a.links.CheckAll(ctx)
	if err != nil {
		a.logger.Err(err, "phase", "link-check")
		return exitFailed
	}
	a.logger.Info("links checked",
		"checked", report.Checked,
		"broken", report.Broken,
		"skipped", report.Skipped,
	)
	return exitOK
}

func (a *app) export(summary *domain.Summary) {
	for _, e := range a.exporters {
		if err := e.Export(summary); err != nil {
			a.logger.Err(err, "phase", "output", "exporter", e.Name())
		}
	}
}

// Close releases the store and the observers.
func (a *app) Close() {
	for _, o := range a.observers {
		if err := o.Close(); err != nil {
			a.logger.Warn("failed to close observer", "error", err.Error())
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err.Error())
	}
}
