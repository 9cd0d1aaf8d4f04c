// internal/platform/resilience/circuit_breaker.go
package resilience

import (
	"sync"
	"time"
)

// State representa el estado del circuit breaker.
type State int

const (
	StateClosed   State = iota // calls pass
	StateOpen                  // calls rejected until the cool-down elapses
	StateHalfOpen              // a few trial calls decide whether to close again
)

// CircuitBreaker deja de llamar a un source que sigue fallando entre sweeps.
type CircuitBreaker struct {
	mu              sync.Mutex
	state           State
	failures        int
	trials          int
	successes       int
	lastFailureTime time.Time

	failureThreshold int
	coolDown         time.Duration
	halfOpenMax      int
	now              func() time.Time
}

// NewCircuitBreaker crea un circuit breaker que se abre tras failureThreshold
// fallos consecutivos y permite halfOpenMax llamadas de prueba pasado coolDown.
func NewCircuitBreaker(failureThreshold int, coolDown time.Duration, halfOpenMax int) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 3
	}
	if coolDown <= 0 {
		coolDown = 10 * time.Minute
	}
	if halfOpenMax <= 0 {
		halfOpenMax = 1
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		coolDown:         coolDown,
		halfOpenMax:      halfOpenMax,
		now:              time.Now,
	}
}

// Allow verifica si una llamada puede pasar.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.coolDown {
			return false
		}
		cb.state = StateHalfOpen
		cb.trials, cb.successes = 0, 0
		fallthrough
	case StateHalfOpen:
		if cb.trials >= cb.halfOpenMax {
			return false
		}
		cb.trials++
		return true
	default:
		return false
	}
}

// RecordSuccess cierra un breaker half-open cuando bastantes pruebas tuvieron éxito.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.halfOpenMax {
			cb.state = StateClosed
			cb.failures = 0
		}
	}
}

// RecordFailure abre el breaker al llegar al umbral, o de inmediato si está half-open.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailureTime = cb.now()
	cb.failures++

	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.failureThreshold {
			cb.state = StateOpen
		}
	case StateHalfOpen:
		cb.state = StateOpen
	}
}

// State retorna el estado actual.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset cierra el breaker.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failures, cb.trials, cb.successes = 0, 0, 0
}

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
