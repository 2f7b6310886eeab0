// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and are mapped to the error catalog
// by the HTTP adapter.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrInvalidInput indicates a request field is absent, malformed, or
	// outside its allowed value domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAccountNotFound indicates the core banking system does not know
	// the account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountHasBalance indicates the account cannot be blocked while
	// it still carries a balance.
	ErrAccountHasBalance = errors.New("account has balance")

	// ErrCancellationFailed indicates the core banking system refused to
	// lift the block.
	ErrCancellationFailed = errors.New("cancellation failed")

	// ErrMissingBlockReference indicates the remote system reported a
	// successful block without a positive reference number. This is a
	// remote-side defect, never a valid result.
	ErrMissingBlockReference = errors.New("blocked account without reference number")

	// ErrProcessFailed indicates the protected call could not complete:
	// the circuit is open or all retry attempts were exhausted. This is
	// the only class the fallback handler degrades on.
	ErrProcessFailed = errors.New("process failed")

	// ErrProcessError indicates a terminal remote or internal failure
	// with no degraded response.
	ErrProcessError = errors.New("process error")
)

// InvalidInputError provides field-level context for validation failures.
type InvalidInputError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Message)
	}

	return "invalid input: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInvalidInputError creates an invalid input error with field context.
func NewInvalidInputError(field, message string) error {
	return &InvalidInputError{Field: field, Message: message}
}

// AccountNotFoundError carries the unknown account identifier.
type AccountNotFoundError struct {
	AccountID AccountID
}

// Error implements the error interface.
func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.AccountID)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *AccountNotFoundError) Unwrap() error {
	return ErrAccountNotFound
}

// NewAccountNotFoundError creates an account not found error.
func NewAccountNotFoundError(id AccountID) error {
	return &AccountNotFoundError{AccountID: id}
}

// AccountHasBalanceError carries context for a block refused on balance.
type AccountHasBalanceError struct {
	AccountID AccountID
}

// Error implements the error interface.
func (e *AccountHasBalanceError) Error() string {
	return fmt.Sprintf("account %s cannot be blocked: balance is not zero", e.AccountID)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *AccountHasBalanceError) Unwrap() error {
	return ErrAccountHasBalance
}

// NewAccountHasBalanceError creates an account has balance error.
func NewAccountHasBalanceError(id AccountID) error {
	return &AccountHasBalanceError{AccountID: id}
}

// CancellationFailedError carries context for a refused unblock.
type CancellationFailedError struct {
	AccountID AccountID
	Reason    string
}

// Error implements the error interface.
func (e *CancellationFailedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("block cancellation for account %s failed: %s", e.AccountID, e.Reason)
	}

	return fmt.Sprintf("block cancellation for account %s failed", e.AccountID)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *CancellationFailedError) Unwrap() error {
	return ErrCancellationFailed
}

// NewCancellationFailedError creates a cancellation failed error.
func NewCancellationFailedError(id AccountID, reason string) error {
	return &CancellationFailedError{AccountID: id, Reason: reason}
}

// MissingBlockReferenceError reports a BLOCK result that violated the
// reference-number invariant.
type MissingBlockReferenceError struct {
	AccountID AccountID
	Reference int64
}

// Error implements the error interface.
func (e *MissingBlockReferenceError) Error() string {
	return fmt.Sprintf("account %s reported as blocked but reference number %d is not positive",
		e.AccountID, e.Reference)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *MissingBlockReferenceError) Unwrap() error {
	return ErrMissingBlockReference
}

// NewMissingBlockReferenceError creates a missing block reference error.
func NewMissingBlockReferenceError(id AccountID, reference int64) error {
	return &MissingBlockReferenceError{AccountID: id, Reference: reference}
}

// ProcessFailedError reports that the protected remote call was given up
// on: either the circuit breaker rejected it or retries were exhausted.
type ProcessFailedError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *ProcessFailedError) Error() string {
	return fmt.Sprintf("call to %s failed: %s", e.Service, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ProcessFailedError) Unwrap() error {
	return ErrProcessFailed
}

// NewProcessFailedError creates a process failed error.
func NewProcessFailedError(service, reason string) error {
	return &ProcessFailedError{Service: service, Reason: reason}
}

// ProcessErrorError reports a terminal remote or internal failure.
type ProcessErrorError struct {
	Operation Operation
	Reason    string
}

// Error implements the error interface.
func (e *ProcessErrorError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s processing error: %s", e.Operation, e.Reason)
	}

	return "processing error: " + e.Reason
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ProcessErrorError) Unwrap() error {
	return ErrProcessError
}

// NewProcessError creates a terminal processing error.
func NewProcessError(op Operation, reason string) error {
	return &ProcessErrorError{Operation: op, Reason: reason}
}

// IsInvalidInput checks if an error is an invalid input error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAccountNotFound checks if an error is an account not found error.
func IsAccountNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

// IsAccountHasBalance checks if an error is an account has balance error.
func IsAccountHasBalance(err error) bool {
	return errors.Is(err, ErrAccountHasBalance)
}

// IsCancellationFailed checks if an error is a cancellation failed error.
func IsCancellationFailed(err error) bool {
	return errors.Is(err, ErrCancellationFailed)
}

// IsMissingBlockReference checks if an error is a missing block reference error.
func IsMissingBlockReference(err error) bool {
	return errors.Is(err, ErrMissingBlockReference)
}

// IsProcessFailed checks if an error is a process failed (degradable) error.
func IsProcessFailed(err error) bool {
	return errors.Is(err, ErrProcessFailed)
}

// IsProcessError checks if an error is a terminal processing error.
func IsProcessError(err error) bool {
	return errors.Is(err, ErrProcessError)
}
