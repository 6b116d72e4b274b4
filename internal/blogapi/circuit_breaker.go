package blogapi

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// breakerState is the state of one operation's circuit
type breakerState int

const (
	breakerClosed   breakerState = iota // Requests flow normally
	breakerOpen                         // Requests fail fast
	breakerHalfOpen                     // One trial request allowed
)

func (s breakerState) String() string {
	switch s {
	case breakerClosed:
		return "CLOSED"
	case breakerOpen:
		return "OPEN"
	case breakerHalfOpen:
		return "HALF-OPEN"
	default:
		return "UNKNOWN"
	}
}

// operationCircuit tracks the failure history of one API operation
type operationCircuit struct {
	lastFailure time.Time
	failures    int
	state       breakerState
	// trialInFlight is set while the single half-open trial is outstanding.
	trialInFlight bool
}

// circuitBreaker stops calling an API operation after it failed repeatedly.
// It never re-sends a request; it only makes later calls fail fast until the
// open window elapses.
type circuitBreaker struct {
	circuits     map[string]*operationCircuit
	logger       *slog.Logger
	now          func() time.Time
	threshold    int
	openDuration time.Duration
	mu           sync.Mutex
}

func newCircuitBreaker(threshold int, openDuration time.Duration, logger *slog.Logger) *circuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &circuitBreaker{
		circuits:     make(map[string]*operationCircuit),
		logger:       logger,
		now:          time.Now,
		threshold:    threshold,
		openDuration: openDuration,
	}
}

// canAttempt reports whether a request for operation may be sent.
// An open circuit whose window elapsed moves to half-open and admits exactly
// one trial call; others fail fast until that trial is settled.
func (cb *circuitBreaker) canAttempt(operation string) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	c, ok := cb.circuits[operation]
	if !ok || c.state == breakerClosed {
		return nil
	}

	if c.state == breakerHalfOpen {
		if c.trialInFlight {
			return fmt.Errorf("%s: %w (trial request in progress)", operation, ErrCircuitOpen)
		}
		c.trialInFlight = true
		return nil
	}

	retryAt := c.lastFailure.Add(cb.openDuration)
	if cb.now().After(retryAt) {
		cb.transition(operation, c, breakerHalfOpen)
		c.trialInFlight = true
		return nil
	}

	return fmt.Errorf("%s: %w (failures: %d, next attempt: %s)",
		operation, ErrCircuitOpen, c.failures, retryAt.Format("15:04:05"))
}

// releaseTrial frees the half-open slot when an admitted call ended without
// an outcome, e.g. because the caller cancelled it.
func (cb *circuitBreaker) releaseTrial(operation string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if c, ok := cb.circuits[operation]; ok {
		c.trialInFlight = false
	}
}

// recordSuccess closes the circuit and forgets past failures.
func (cb *circuitBreaker) recordSuccess(operation string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	c, ok := cb.circuits[operation]
	if !ok {
		return
	}
	if c.state != breakerClosed {
		cb.transition(operation, c, breakerClosed)
	}
	delete(cb.circuits, operation)
}

// recordFailure counts a failure and opens the circuit at the threshold.
// A failed trial in half-open reopens immediately.
func (cb *circuitBreaker) recordFailure(operation string, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	c, ok := cb.circuits[operation]
	if !ok {
		c = &operationCircuit{}
		cb.circuits[operation] = c
	}
	c.failures++
	c.lastFailure = cb.now()
	c.trialInFlight = false

	if c.state == breakerHalfOpen || c.failures >= cb.threshold {
		if c.state != breakerOpen {
			cb.transition(operation, c, breakerOpen)
			cb.logger.Warn("[BLOG-API] failing fast after consecutive failures",
				"operation", operation,
				"failures", c.failures,
				"open_for", cb.openDuration,
				"error", err)
		}
		return
	}

	cb.logger.Debug("[BLOG-API] operation failure",
		"operation", operation,
		"failures", c.failures,
		"threshold", cb.threshold,
		"error", err)
}

// state returns the current state of operation's circuit.
func (cb *circuitBreaker) state(operation string) breakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if c, ok := cb.circuits[operation]; ok {
		return c.state
	}
	return breakerClosed
}

// transition must be called with the lock held
func (cb *circuitBreaker) transition(operation string, c *operationCircuit, to breakerState) {
	if c.state == to {
		return
	}
	cb.logger.Info("[BLOG-API] circuit state change",
		"operation", operation,
		"from", c.state.String(),
		"to", to.String())
	c.state = to
}
