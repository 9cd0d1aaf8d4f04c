// internal/platform/workerpool/worker_pool.go
package workerpool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"oppsync/internal/platform/logx"
)

// Task representa una tarea a ejecutar en el worker pool.
type Task interface {
	// Execute ejecuta la tarea. Los panics se recuperan y se reportan como error.
	Execute(ctx context.Context) error

	// Priority mayor se ejecuta antes con el scheduler de prioridad.
	Priority() int

	// Weight costo estimado (0-100).
	Weight() int

	// Name identifica la tarea en logs y resultados.
	Name() string
}

// Scheduler define la estrategia de scheduling.
type Scheduler interface {
	Schedule(tasks []Task) []Task
	Name() string
}

// TaskResult representa el resultado de una tarea.
type TaskResult struct {
	Task     Task
	Error    error
	Duration time.Duration
}

// WorkerPoolConfig configura el worker pool.
type WorkerPoolConfig struct {
	Workers   int
	Scheduler Scheduler
	Logger    logx.Logger
}

// WorkerPool gestiona la ejecución concurrente de tareas con scheduling.
// Es reutilizable: cada Run arranca y drena sus propios workers.
type WorkerPool struct {
	workers   int
	scheduler Scheduler
	logger    logx.Logger
}

// NewWorkerPool crea un nuevo worker pool; los valores cero toman defaults.
func NewWorkerPool(cfg WorkerPoolConfig) *WorkerPool {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewPriorityScheduler()
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.NewNop()
	}

	return &WorkerPool{
		workers:   cfg.Workers,
		scheduler: cfg.Scheduler,
		logger:    cfg.Logger.With("component", "worker-pool"),
	}
}

// Run ejecuta las tareas y retorna un resultado por tarea, en orden de finalización.
// Las tareas no iniciadas al cancelar ctx se reportan con ctx.Err().
func (wp *WorkerPool) Run(ctx context.Context, tasks []Task) []TaskResult {
	if len(tasks) == 0 {
		return []TaskResult{}
	}

	scheduled := wp.scheduler.Schedule(tasks)
	workers := wp.workers
	if workers > len(scheduled) {
		workers = len(scheduled)
	}

	wp.logger.Debug("running tasks",
		"total", len(scheduled),
		"workers", workers,
		"scheduler", wp.scheduler.Name(),
	)

	queue := make(chan Task)
	results := make(chan TaskResult, len(scheduled))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for task := range queue {
				results <- wp.execute(ctx, id, task)
			}
		}(i)
	}

	go func() {
		defer close(queue)
		for i, task := range scheduled {
			select {
			case queue <- task:
			case <-ctx.Done():
				for _, skipped := range scheduled[i:] {
					results <- TaskResult{Task: skipped, Error: ctx.Err()}
				}
				return
			}
		}
	}()

	collected := make([]TaskResult, 0, len(scheduled))
	for range scheduled {
		collected = append(collected, <-results)
	}
	wg.Wait()
	return collected
}

func (wp *WorkerPool) execute(ctx context.Context, workerID int, task Task) (result TaskResult) {
	start := time.Now()
	result.Task = task

	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("task %s panicked: %v", task.Name(), r)
			wp.logger.Warn("task panicked", "worker_id", workerID, "task", task.Name(), "panic", fmt.Sprint(r))
		}
		result.Duration = time.Since(start)
		wp.logger.Debug("task completed",
			"worker_id", workerID,
			"task", task.Name(),
			"duration_ms", result.Duration.Milliseconds(),
			"error", result.Error != nil,
		)
	}()

	result.Error = task.Execute(ctx)
	return result
}

// Stats retorna estadísticas del worker pool.
func (wp *WorkerPool) Stats() WorkerPoolStats {
	return WorkerPoolStats{
		Workers:       wp.workers,
		SchedulerName: wp.scheduler.Name(),
	}
}

// WorkerPoolStats contiene estadísticas del worker pool.
type WorkerPoolStats struct {
	Workers       int
	SchedulerName string
}
