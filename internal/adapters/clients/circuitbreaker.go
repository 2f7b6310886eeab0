package clients

import (
	"context"
	"sync"
	"time"
)

// State represents the current state of the circuit breaker.
type State int

const (
	// StateClosed is the normal operating state. Requests are allowed through.
	StateClosed State = iota

	// StateOpen is the failing state. Requests are blocked to prevent cascading failures.
	StateOpen

	// StateHalfOpen is the recovery testing state. Limited requests are allowed to probe recovery.
	StateHalfOpen
)

// String returns a human-readable name for the state.
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

// CircuitBreakerConfig configures the circuit breaker behavior.
type CircuitBreakerConfig struct {
	// SlidingWindowSize is the number of recent call outcomes used to
	// compute the failure rate in closed state.
	SlidingWindowSize int

	// MinimumNumberOfCalls is the number of outcomes that must be in the
	// window before the failure rate is evaluated at all.
	MinimumNumberOfCalls int

	// FailureRateThreshold is the failure rate (0..1) above which the
	// circuit opens.
	FailureRateThreshold float64

	// WaitDurationInOpenState is how long to stay open before
	// transitioning to half-open.
	WaitDurationInOpenState time.Duration

	// PermittedCallsInHalfOpenState is the number of probe calls allowed
	// through while half-open. All of them must succeed to close the
	// circuit; a single failure reopens it.
	PermittedCallsInHalfOpenState int
}

// CircuitBreaker guards calls to a single remote target.
// It records the last SlidingWindowSize outcomes and opens when the
// observed failure rate exceeds FailureRateThreshold.
//
// State transitions:
//   - Closed → Open: failure rate over the full-enough window exceeds the threshold
//   - Open → HalfOpen: after WaitDurationInOpenState has passed
//   - HalfOpen → Closed: all permitted probe calls succeed (window is cleared)
//   - HalfOpen → Open: any probe call fails (wait timer restarts)
//
// One instance is scoped to one remote target, keyed by the downstream
// service name. All state is memory-resident: a process restart starts closed.
type CircuitBreaker struct {
	mu   sync.RWMutex
	cfg  CircuitBreakerConfig
	name string

	state State

	// window is a ring buffer of recent outcomes, true = failure.
	window   []bool
	head     int
	observed int
	failures int

	// half-open accounting
	probesIssued    int
	probesSucceeded int

	// openedAt marks entry into the open state.
	openedAt time.Time

	// onStateChange is called when the state changes. Can be used for logging/metrics.
	onStateChange func(from, to State)

	// now is a function that returns current time. Overridable for testing.
	now func() time.Time
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration.
// name identifies the remote target the breaker protects.
func NewCircuitBreaker(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.SlidingWindowSize <= 0 {
		cfg.SlidingWindowSize = 1
	}

	if cfg.MinimumNumberOfCalls <= 0 {
		cfg.MinimumNumberOfCalls = 1
	}

	if cfg.PermittedCallsInHalfOpenState <= 0 {
		cfg.PermittedCallsInHalfOpenState = 1
	}

	return &CircuitBreaker{
		cfg:    cfg,
		name:   name,
		state:  StateClosed,
		window: make([]bool, cfg.SlidingWindowSize),
		now:    time.Now,
	}
}

// Name returns the remote target name the breaker is keyed by.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// OnStateChange sets a callback that is invoked when the circuit state changes.
// This can be used for logging or updating metrics.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Allow checks if a call should be allowed through.
// Returns true if the call should proceed, false if it must be rejected
// without any remote attempt.
//
// This method may trigger a state transition from Open to HalfOpen once the
// wait duration has elapsed. In half-open state only the configured number
// of probe calls is admitted; further callers are rejected while the probes
// are still being evaluated.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true

	case StateOpen:
		if cb.now().Sub(cb.openedAt) >= cb.cfg.WaitDurationInOpenState {
			cb.transitionTo(StateHalfOpen)
			cb.probesIssued = 1
			return true
		}
		return false

	case StateHalfOpen:
		if cb.probesIssued >= cb.cfg.PermittedCallsInHalfOpenState {
			return false
		}
		cb.probesIssued++
		return true

	default:
		return false
	}
}

// RecordSuccess records a successful call outcome.
// In half-open state, the circuit closes once every permitted probe has
// succeeded; the window starts empty again.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.record(false)

	case StateHalfOpen:
		cb.probesSucceeded++
		if cb.probesSucceeded >= cb.cfg.PermittedCallsInHalfOpenState {
			cb.transitionTo(StateClosed)
		}
	}
}

// RecordFailure records a failed call outcome.
// In closed state this may open the circuit once the window holds enough
// outcomes and the failure rate crosses the threshold. In half-open state
// any failure immediately reopens and restarts the wait timer.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.record(true)
		if cb.observed >= cb.cfg.MinimumNumberOfCalls && cb.failureRate() > cb.cfg.FailureRateThreshold {
			cb.openedAt = cb.now()
			cb.transitionTo(StateOpen)
		}

	case StateHalfOpen:
		cb.openedAt = cb.now()
		cb.transitionTo(StateOpen)
	}
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Execute runs fn under the breaker. If the circuit rejects the call,
// ErrCircuitOpen is returned and fn is never invoked. Otherwise fn's
// outcome is recorded into the window and its error returned unchanged.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if !cb.Allow() {
		return ErrCircuitOpen
	}

	err := fn(ctx)
	if err != nil {
		cb.RecordFailure()
		return err
	}

	cb.RecordSuccess()

	return nil
}

// record pushes an outcome into the ring buffer.
// Must be called with lock held.
func (cb *CircuitBreaker) record(failure bool) {
	if cb.observed == len(cb.window) {
		// Window full: the slot being overwritten falls out of the stats.
		if cb.window[cb.head] {
			cb.failures--
		}
	} else {
		cb.observed++
	}

	cb.window[cb.head] = failure
	if failure {
		cb.failures++
	}

	cb.head = (cb.head + 1) % len(cb.window)
}

// failureRate returns failures over the outcomes currently in the window.
// Must be called with lock held.
func (cb *CircuitBreaker) failureRate() float64 {
	if cb.observed == 0 {
		return 0
	}

	return float64(cb.failures) / float64(cb.observed)
}

// transitionTo changes the circuit breaker state.
// Must be called with lock held.
func (cb *CircuitBreaker) transitionTo(newState State) {
	if cb.state == newState {
		return
	}

	oldState := cb.state
	cb.state = newState

	// Probe accounting restarts on every transition; the outcome window
	// only survives while closed.
	cb.probesIssued = 0
	cb.probesSucceeded = 0

	if newState == StateClosed {
		cb.clearWindow()
	}

	if cb.onStateChange != nil {
		// Call in goroutine to avoid blocking while holding lock
		go cb.onStateChange(oldState, newState)
	}
}

// clearWindow resets the sliding window statistics.
// Must be called with lock held.
func (cb *CircuitBreaker) clearWindow() {
	for i := range cb.window {
		cb.window[i] = false
	}

	cb.head = 0
	cb.observed = 0
	cb.failures = 0
}
