// internal/core/usecases/orchestrator.go
package usecases

import (
	"context"
	"fmt"
	"time"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/logx"
	"oppsync/internal/platform/registry"
	"oppsync/internal/platform/workerpool"
)

// Orchestrator coordina un sweep: valida cada descriptor, hace fetch de
// todas las fuentes con el worker pool y después reconcilia sus items fuente
// por fuente en orden de configuración.
type Orchestrator struct {
	sources    []domain.SourceDescriptor
	fetchers   map[domain.SourceKind]ports.Fetcher
	weights    map[domain.SourceKind]int
	reconciler *Reconciler
	pool       *workerpool.WorkerPool
	recorder   ports.Recorder
	events     *broadcaster
	logger     logx.Logger
}

// OrchestratorOptions configura el orchestrator.
type OrchestratorOptions struct {
	Sources    []domain.SourceDescriptor
	Fetchers   map[domain.SourceKind]ports.Fetcher
	Reconciler *Reconciler
	// Weights estimated fetch cost per kind, used by the scheduler.
	Weights   map[domain.SourceKind]int
	Workers   int
	Scheduler workerpool.Scheduler
	Recorder  ports.Recorder
	Observers []ports.Notifier
	Logger    logx.Logger
}

// NewOrchestrator crea un nuevo orchestrator.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Recorder == nil {
		opts.Recorder = ports.NopRecorder{}
	}
	if opts.Weights == nil {
		opts.Weights = map[domain.SourceKind]int{}
	}

	logger := opts.Logger.With("component", "orchestrator")
	return &Orchestrator{
		sources:    opts.Sources,
		fetchers:   opts.Fetchers,
		weights:    opts.Weights,
		reconciler: opts.Reconciler,
		pool: workerpool.NewWorkerPool(workerpool.WorkerPoolConfig{
			Workers:   opts.Workers,
			Scheduler: opts.Scheduler,
			Logger:    opts.Logger,
		}),
		recorder: opts.Recorder,
		events:   newBroadcaster(opts.Observers, logger),
		logger:   logger,
	}
}

// IngestAll runs one sweep and returns its summary. The error is a
// *domain.ConfigurationError when validation stopped the sweep before any
// fetch, or the context error when the sweep was cancelled. Source and
// item failures are only reported in the summary.
func (o *Orchestrator) IngestAll(ctx context.Context) (*domain.Summary, error) {
	summary := domain.NewSummary()
	defer o.events.wait()

	if problems := registry.ValidateAll(o.sources); len(problems) > 0 {
		summary.ValidationErrors = problems
		summary.Finalize()
		cfgErr := &domain.ConfigurationError{Details: problems}
		o.logger.Err(cfgErr, "invalid_sources", len(problems))
		o.events.notify(ctx, ports.NewEvent(ports.EventTypeSweepAborted, "orchestrator", cfgErr))
		return summary, cfgErr
	}

	o.logger.Info("starting sweep", "sources", len(o.sources), "workers", o.pool.Stats().Workers)
	o.events.notify(ctx, ports.NewEvent(
		ports.EventTypeSweepStarted,
		"orchestrator",
		ports.SweepStartedEvent{Sources: len(o.sources)},
	))

	results := make([]domain.SourceResult, len(o.sources))
	for i, src := range o.sources {
		results[i] = domain.SourceResult{
			Name:   src.Base().Name,
			Kind:   src.Kind(),
			State:  domain.StatePending,
			Status: domain.SourceStatusNoItems,
		}
	}

	tasks := o.fetchStage(ctx, results)

	for i, src := range o.sources {
		res := &results[i]
		if !res.State.Terminal() {
			o.reconcileSource(ctx, src, tasks[i].Items(), res)
		}
		summary.Add(*res)
		o.recorder.ObserveSource(*res)
		o.reportSource(ctx, *res)
	}

	summary.Finalize()
	o.logger.Info("sweep completed",
		"created", summary.TotalCreated,
		"updated", summary.TotalUpdated,
		"skipped", summary.TotalSkipped,
		"errors", summary.TotalErrors,
		"duration_ms", summary.Duration.Milliseconds(),
	)
	o.events.notify(ctx, ports.NewEvent(
		ports.EventTypeSweepCompleted,
		"orchestrator",
		ports.SweepCompletedEvent{Summary: summary},
	))

	return summary, ctx.Err()
}

// fetchStage fetches every source through the pool. Sources that fail, or
// fetch nothing, reach a terminal state here. An adapter-reported fetch
// error is fail-soft: the source keeps its items (usually none) and the
// error is kept for diagnostics. Only a panic, a skipped task or
// cancellation fails the source.
func (o *Orchestrator) fetchStage(ctx context.Context, results []domain.SourceResult) []*FetchTask {
	tasks := make([]*FetchTask, len(o.sources))
	index := make(map[*FetchTask]int, len(o.sources))
	runnable := make([]workerpool.Task, 0, len(o.sources))

	for i, src := range o.sources {
		fetcher, ok := o.fetchers[src.Kind()]
		if !ok {
			tasks[i] = NewFetchTask(nil, src, 0)
			results[i].Error = fmt.Sprintf("%s: %s", domain.ErrUnsupportedKind, src.Kind())
			results[i].Transition(domain.StateFailed)
			continue
		}

		res := &results[i]
		task := NewFetchTask(fetcher, src, o.weights[src.Kind()])
		task.onStart = func() {
			res.Transition(domain.StateFetching)
			o.events.notify(ctx, ports.NewEvent(
				ports.EventTypeSourceStarted,
				res.Name,
				ports.SourceEvent{Kind: res.Kind},
			))
		}
		tasks[i] = task
		index[task] = i
		runnable = append(runnable, task)
	}

	for _, tr := range o.pool.Run(ctx, runnable) {
		task := tr.Task.(*FetchTask)
		res := &results[index[task]]
		report := task.Report()
		res.FetchTime = report.Duration
		res.Items = len(task.Items())

		switch {
		case tr.Error != nil:
			res.Error = tr.Error.Error()
			res.Transition(domain.StateFailed)
			o.logger.Warn("source fetch aborted", "source", res.Name, "error", res.Error)
		case report.Err != nil && ctx.Err() != nil:
			res.Error = report.Err.Error()
			res.Transition(domain.StateFailed)
		case report.Err != nil:
			res.Error = report.Err.Error()
			o.logger.Warn("source fetch failed",
				"source", res.Name,
				"reason", errors.Reason(report.Err),
				"error", res.Error,
			)
			if res.Items == 0 {
				res.Transition(domain.StateIdle)
			}
		case res.Items == 0:
			res.Transition(domain.StateIdle)
		}
	}
	return tasks
}

// reconcileSource writes the items of one source. Item failures are
// counted as skipped; only a panic or cancellation fails the source.
func (o *Orchestrator) reconcileSource(ctx context.Context, src domain.SourceDescriptor, items []domain.RawItem, res *domain.SourceResult) {
	logger := o.logger.With("source", res.Name)
	start := time.Now()
	res.Transition(domain.StateReconciling)

	defer func() {
		res.ProcessTime = time.Since(start)
		if r := recover(); r != nil {
			res.Error = fmt.Sprintf("reconcile panicked: %v", r)
			res.Transition(domain.StateFailed)
			logger.Warn("reconcile panicked", "panic", fmt.Sprint(r))
		}
	}()

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			res.Error = err.Error()
			res.Transition(domain.StateFailed)
			return
		}

		outcome, err := o.reconciler.Reconcile(ctx, item, src)
		if err != nil {
			logger.Warn("item skipped", "title", item.Title, "error", err.Error())
		}
		res.Record(outcome)
		o.recorder.ObserveItem(res.Name, outcome)
	}

	res.Transition(domain.StateDone)
	logger.Info("source reconciled",
		"items", res.Items,
		"created", res.Created,
		"updated", res.Updated,
		"skipped", res.Skipped,
	)
}

func (o *Orchestrator) reportSource(ctx context.Context, res domain.SourceResult) {
	eventType := ports.EventTypeSourceCompleted
	if res.Status == domain.SourceStatusError {
		eventType = ports.EventTypeSourceFailed
	}
	o.events.notify(ctx, ports.NewEvent(eventType, res.Name, ports.SourceEvent{Kind: res.Kind, Result: res}))
}
