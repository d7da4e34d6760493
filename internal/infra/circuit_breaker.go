package infra

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the breaker rejects a call without
// attempting it. Callers treat it as a transient failure and retry later.
var ErrCircuitOpen = errors.New("circuit breaker abierto: sidecar SUNAT no disponible")

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

// CircuitBreaker protects the SUNAT sidecar from being hammered while it is
// down. After maxFailures consecutive failures the circuit opens and every
// call fails fast with ErrCircuitOpen; once resetTimeout elapses a single
// probe call is let through (half-open) and its outcome decides whether the
// circuit closes again.
type CircuitBreaker struct {
	mu          sync.Mutex
	state       circuitState
	failures    int
	maxFailures int
	resetAfter  time.Duration
	openedAt    time.Time
}

func NewCircuitBreaker(maxFailures int, resetAfter time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures: maxFailures,
		resetAfter:  resetAfter,
	}
}

// Allow reports whether a call may proceed. In the open state it transitions
// to half-open once the reset window has passed, admitting one probe.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case circuitClosed:
		return true
	case circuitOpen:
		if time.Since(cb.openedAt) >= cb.resetAfter {
			cb.state = circuitHalfOpen
			return true
		}
		return false
	case circuitHalfOpen:
		return false
	}
	return false
}

// Success resets the breaker to closed.
func (cb *CircuitBreaker) Success() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = circuitClosed
	cb.failures = 0
}

// Failure records a failed call, opening the circuit once the threshold is
// reached. A failed half-open probe reopens immediately.
func (cb *CircuitBreaker) Failure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == circuitHalfOpen {
		cb.state = circuitOpen
		cb.openedAt = time.Now()
		return
	}
	cb.failures++
	if cb.failures >= cb.maxFailures {
		cb.state = circuitOpen
		cb.openedAt = time.Now()
	}
}
