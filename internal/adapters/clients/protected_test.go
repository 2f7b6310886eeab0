package clients

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProtector(breakerCfg CircuitBreakerConfig, retryCfg RetryConfig) (*Protector, *CircuitBreaker) {
	breaker := NewCircuitBreaker("core-banking", breakerCfg)
	retrier := NewRetrier(retryCfg, nil)
	retrier.sleep = noSleep

	return NewProtector(breaker, retrier), breaker
}

func TestProtector_Success(t *testing.T) {
	p, _ := newTestProtector(testBreakerConfig(), RetryConfig{MaxAttempts: 3, InterAttemptDelay: time.Millisecond})

	calls := 0
	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, StateClosed, p.CircuitState())
}

func TestProtector_ExhaustionIsOneBreakerOutcome(t *testing.T) {
	cfg := testBreakerConfig()
	cfg.SlidingWindowSize = 3
	cfg.MinimumNumberOfCalls = 3

	p, breaker := newTestProtector(cfg, RetryConfig{MaxAttempts: 4, InterAttemptDelay: time.Millisecond})

	calls := 0
	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		return retryableErr("connection reset")
	})

	require.ErrorIs(t, err, ErrRetriesExhausted)
	// Four attempts were spent, but the window saw a single failure
	assert.Equal(t, 4, calls)
	assert.Equal(t, StateClosed, breaker.State())

	// Two more exhausted invocations make three window failures and open it
	_ = p.Execute(context.Background(), func(context.Context) error { return retryableErr("x") })
	_ = p.Execute(context.Background(), func(context.Context) error { return retryableErr("x") })
	assert.Equal(t, StateOpen, breaker.State())
}

func TestProtector_RejectionSkipsRetrier(t *testing.T) {
	p, breaker := newTestProtector(testBreakerConfig(), RetryConfig{MaxAttempts: 3, InterAttemptDelay: time.Millisecond})

	tripBreaker(breaker)
	require.Equal(t, StateOpen, breaker.State())

	calls := 0
	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	// No attempt, no retry consumed
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 0, calls)
}

func TestProtector_TerminalErrorPassesThrough(t *testing.T) {
	p, breaker := newTestProtector(testBreakerConfig(), RetryConfig{MaxAttempts: 3, InterAttemptDelay: time.Millisecond})

	calls := 0
	cause := terminalErr(404)
	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		return cause
	})

	assert.Equal(t, cause, err)
	assert.Equal(t, 1, calls)
	// A terminal remote answer still counts as a failure outcome
	assert.Equal(t, StateClosed, breaker.State())
}

func TestProtector_RecoversThroughHalfOpen(t *testing.T) {
	now := time.Now()

	cfg := testBreakerConfig()
	cfg.PermittedCallsInHalfOpenState = 1

	p, breaker := newTestProtector(cfg, RetryConfig{MaxAttempts: 2, InterAttemptDelay: time.Millisecond})
	breaker.now = func() time.Time { return now }

	tripBreaker(breaker)
	require.Equal(t, StateOpen, p.CircuitState())

	now = now.Add(150 * time.Millisecond)

	// The probe goes through the retrier like any other call
	err := p.Execute(context.Background(), func(context.Context) error {
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, StateClosed, p.CircuitState())
}
