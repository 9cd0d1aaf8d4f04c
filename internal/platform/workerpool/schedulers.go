// internal/platform/workerpool/schedulers.go
package workerpool

import (
	"sort"
)

// PriorityScheduler ordena tareas por prioridad (mayor primero); a igual prioridad, menor peso primero.
type PriorityScheduler struct{}

// NewPriorityScheduler crea el scheduler por defecto.
func NewPriorityScheduler() *PriorityScheduler {
	return &PriorityScheduler{}
}

// Schedule ordena una copia de las tareas por prioridad descendente.
func (s *PriorityScheduler) Schedule(tasks []Task) []Task {
	scheduled := make([]Task, len(tasks))
	copy(scheduled, tasks)

	sort.SliceStable(scheduled, func(i, j int) bool {
		if scheduled[i].Priority() != scheduled[j].Priority() {
			return scheduled[i].Priority() > scheduled[j].Priority()
		}
		return scheduled[i].Weight() < scheduled[j].Weight()
	})

	return scheduled
}

func (s *PriorityScheduler) Name() string {
	return "priority"
}

// WeightedScheduler ordena tareas por peso (menor primero), así los sources rápidos reportan antes.
type WeightedScheduler struct{}

func NewWeightedScheduler() *WeightedScheduler {
	return &WeightedScheduler{}
}

// Schedule ordena una copia de las tareas por peso ascendente.
func (s *WeightedScheduler) Schedule(tasks []Task) []Task {
	scheduled := make([]Task, len(tasks))
	copy(scheduled, tasks)

	sort.SliceStable(scheduled, func(i, j int) bool {
		if scheduled[i].Weight() != scheduled[j].Weight() {
			return scheduled[i].Weight() < scheduled[j].Weight()
		}
		return scheduled[i].Priority() > scheduled[j].Priority()
	})

	return scheduled
}

func (s *WeightedScheduler) Name() string {
	return "weighted"
}

// FIFOScheduler no reordena (orden de declaración).
type FIFOScheduler struct{}

func NewFIFOScheduler() *FIFOScheduler {
	return &FIFOScheduler{}
}

func (s *FIFOScheduler) Schedule(tasks []Task) []Task {
	scheduled := make([]Task, len(tasks))
	copy(scheduled, tasks)
	return scheduled
}

func (s *FIFOScheduler) Name() string {
	return "fifo"
}

// SchedulerByName retorna el scheduler para un valor de configuración.
// Nombres desconocidos usan prioridad.
func SchedulerByName(name string) Scheduler {
	switch name {
	case "weighted":
		return NewWeightedScheduler()
	case "fifo":
		return NewFIFOScheduler()
	default:
		return NewPriorityScheduler()
	}
}
