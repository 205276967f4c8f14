package redsync

import (
	"sync"
	"time"
)

// circuitBreaker prevents one sick instance from eating every attempt's
// connection timeout. Each RedisInstance owns its own breaker: a cluster
// member that starts timing out trips its breaker and every further call
// fails fast with TransportError (wrapping ErrCircuitOpen) until the reset
// timeout elapses and the breaker moves to half-open.
//
// States:
//   - closed: normal operation, calls pass through
//   - open: calls fail fast without touching the backing server
//   - half-open: calls pass through to test recovery; the first recorded
//     success closes the breaker and the first recorded failure reopens it
type circuitBreaker struct {
	mu            sync.Mutex
	maxFailures   int
	resetTimeout  time.Duration
	failures      int
	lastFailTime  time.Time
	state         string // "closed", "open", "half-open"
	onStateChange func(from, to string)
}

func newCircuitBreaker(cfg ConnectionConfig) *circuitBreaker {
	return &circuitBreaker{
		maxFailures:  cfg.CircuitMaxFailures,
		resetTimeout: cfg.CircuitResetTimeout,
		state:        "closed",
	}
}

// Execute runs fn if the breaker is closed or half-open, and records the
// outcome against the breaker's state. Returns a TransportError wrapping
// ErrCircuitOpen without calling fn if the breaker is open and the reset
// timeout has not elapsed.
func (cb *circuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return NewTransportError(ErrCircuitOpen)
	}

	err := fn()
	cb.recordResult(err)
	return err
}

func (cb *circuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case "open":
		if time.Since(cb.lastFailTime) > cb.resetTimeout {
			cb.setState("half-open")
			return true
		}
		return false
	default: // closed, half-open
		return true
	}
}

func (cb *circuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		cb.lastFailTime = time.Now()

		if cb.failures >= cb.maxFailures && cb.state != "open" {
			cb.setState("open")
		}
		return
	}

	if cb.state == "half-open" {
		cb.setState("closed")
	}
	cb.failures = 0
}

func (cb *circuitBreaker) setState(newState string) {
	oldState := cb.state
	cb.state = newState
	if cb.onStateChange != nil {
		cb.onStateChange(oldState, newState)
	}
}

// State returns the current breaker state: "closed", "open", or "half-open".
func (cb *circuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the current consecutive-failure count.
func (cb *circuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Reset forces the breaker back to closed with a zeroed failure count.
func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.setState("closed")
}

// withStateChangeCallback installs a hook invoked on every state transition,
// used to drive MetricCircuitOpen/MetricCircuitHalfOpen.
func (cb *circuitBreaker) withStateChangeCallback(fn func(from, to string)) *circuitBreaker {
	cb.onStateChange = fn
	return cb
}
