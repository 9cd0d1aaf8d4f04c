// internal/core/domain/summary.go
package domain

import (
	"sync"
	"time"
)

// Summary is the result of one sweep, returned to the scheduler.
type Summary struct {
	TotalCreated int `json:"totalCreated"`
	TotalUpdated int `json:"totalUpdated"`
	TotalSkipped int `json:"totalSkipped"`
	TotalErrors  int `json:"totalErrors"`

	// Sources per-source outcomes in configuration order.
	Sources []SourceResult `json:"sources"`

	// ValidationErrors is set only when the sweep stopped at validation.
	ValidationErrors map[string][]string `json:"validationErrors,omitempty"`

	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Duration   time.Duration `json:"duration"`

	mu sync.Mutex
}

// SourceResult is the outcome of one source within a sweep.
type SourceResult struct {
	Name   string       `json:"name"`
	Kind   SourceKind   `json:"kind"`
	Status SourceStatus `json:"status"`
	State  SourceState  `json:"-"`

	Items   int `json:"items"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`

	FetchTime   time.Duration `json:"fetchTime"`
	ProcessTime time.Duration `json:"processTime"`

	Error string `json:"error,omitempty"`
}

// NewSummary starts a summary clock.
func NewSummary() *Summary {
	return &Summary{
		Sources:   make([]SourceResult, 0),
		StartedAt: time.Now(),
	}
}

// Add folds one source result into the totals.
func (s *Summary) Add(r SourceResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Sources = append(s.Sources, r)
	s.TotalCreated += r.Created
	s.TotalUpdated += r.Updated
	s.TotalSkipped += r.Skipped
	if r.Status == SourceStatusError {
		s.TotalErrors++
	}
}

// Finalize stops the clock.
func (s *Summary) Finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.FinishedAt = time.Now()
	s.Duration = s.FinishedAt.Sub(s.StartedAt)
}

// Results returns the per-source results keyed by source name.
func (s *Summary) Results() map[string]SourceResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]SourceResult, len(s.Sources))
	for _, r := range s.Sources {
		out[r.Name] = r
	}
	return out
}

// TotalItems counts every reconciled item regardless of outcome.
func (s *Summary) TotalItems() int {
	return s.TotalCreated + s.TotalUpdated + s.TotalSkipped
}

// Failed reports whether validation stopped the sweep or any source failed.
func (s *Summary) Failed() bool {
	return len(s.ValidationErrors) > 0 || s.TotalErrors > 0
}

// Record counts one reconcile outcome.
func (r *SourceResult) Record(o Outcome) {
	switch o {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	default:
		r.Skipped++
	}
}

// Transition moves the result to next if the state machine allows it.
func (r *SourceResult) Transition(next SourceState) bool {
	if !r.State.CanTransition(next) {
		return false
	}
	r.State = next
	switch next {
	case StateIdle:
		r.Status = SourceStatusNoItems
	case StateDone:
		r.Status = SourceStatusSuccess
	case StateFailed:
		r.Status = SourceStatusError
	}
	return true
}

// LinkReport is the outcome of one link-checker pass.
type LinkReport struct {
	Checked int `json:"checked"`
	Valid   int `json:"valid"`
	Broken  int `json:"broken"`
	Skipped int `json:"skipped"`
}
