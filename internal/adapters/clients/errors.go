// Package clients provides the protected remote-call layer for downstream
// services: circuit breaking, bounded retry, and a raw instrumented HTTP
// client composed as independent decorators.
package clients

import (
	"errors"
	"fmt"
)

// Pipeline errors surfaced by the resilience layer.
// These are infrastructure failures; the ACL translates them to domain
// errors before they reach the application layer.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects the call.
	// No remote attempt is made and no retry is consumed.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrRetriesExhausted is returned when every retry attempt has failed.
	// The last attempt's error is wrapped for context.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// CallError is a classified failure from a single remote call attempt.
// Status is zero for transport-level failures.
type CallError struct {
	Service   string
	Status    int
	Err       error
	retryable bool
}

// Error implements the error interface.
func (e *CallError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
	}

	return fmt.Sprintf("call to %s failed: %v", e.Service, e.Err)
}

// Unwrap returns the underlying cause, if any.
func (e *CallError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is worth another attempt.
func (e *CallError) Retryable() bool {
	return e.retryable
}

// retryableError is implemented by errors that carry their own
// retry classification.
type retryableError interface {
	Retryable() bool
}

// IsRetryable reports whether err is classified as retryable.
// Breaker rejections and errors without a classification are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var re retryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}

	return false
}
