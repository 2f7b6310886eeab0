// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"fmt"
	"net/http"
)

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is the machine-readable catalog code (e.g., "INVALID_INPUT").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details provides additional context about the error.
	// For validation errors, this contains field-level error messages.
	Details map[string]string `json:"details,omitempty"`
}

// Catalog codes for machine-readable error identification.
const (
	// ErrorCodeBadRequest indicates the request was structurally malformed.
	ErrorCodeBadRequest = "BAD_REQUEST"

	// ErrorCodeInvalidInput indicates a field failed the operation's
	// validation rule-set.
	ErrorCodeInvalidInput = "INVALID_INPUT"

	// ErrorCodeFailedProcess indicates the protected call to the core
	// banking system could not complete (circuit open, retries exhausted).
	ErrorCodeFailedProcess = "FAILED_PROCESS"

	// ErrorCodeErrorProcess indicates an unexpected terminal failure.
	ErrorCodeErrorProcess = "ERROR_PROCESS"

	// ErrorCodeAccountNotFound indicates the account does not exist.
	ErrorCodeAccountNotFound = "ACCOUNT_NOT_FOUND"

	// ErrorCodeAccountHasBalance indicates a block refused on balance.
	ErrorCodeAccountHasBalance = "ACCOUNT_HAS_BALANCE"

	// ErrorCodeCancellationFailed indicates an unblock was refused.
	ErrorCodeCancellationFailed = "CANCELLATION_FAILED"

	// ErrorCodeBlockedNoReference indicates the remote reported a block
	// without a positive reference number.
	ErrorCodeBlockedNoReference = "BLOCKED_ACCOUNT_NO_BLOCK_NUMBER"

	// ErrorCodeTimeout indicates the request timed out at the server.
	ErrorCodeTimeout = "TIMEOUT"
)

// CatalogEntry pairs a catalog code with its message template and HTTP
// status. Entries are immutable and process-wide.
type CatalogEntry struct {
	Code            string
	MessageTemplate string
	HTTPStatus      int
}

// catalog is the process-wide error catalog, keyed by code.
// MessageTemplate parameters are filled positionally with fmt verbs.
var catalog = map[string]CatalogEntry{
	ErrorCodeBadRequest: {
		Code:            ErrorCodeBadRequest,
		MessageTemplate: "malformed request: %s",
		HTTPStatus:      http.StatusBadRequest,
	},
	ErrorCodeInvalidInput: {
		Code:            ErrorCodeInvalidInput,
		MessageTemplate: "invalid input: %s",
		HTTPStatus:      http.StatusBadRequest,
	},
	ErrorCodeFailedProcess: {
		Code:            ErrorCodeFailedProcess,
		MessageTemplate: "the operation on account %s could not be completed",
		HTTPStatus:      http.StatusServiceUnavailable,
	},
	ErrorCodeErrorProcess: {
		Code:            ErrorCodeErrorProcess,
		MessageTemplate: "an internal error occurred",
		HTTPStatus:      http.StatusInternalServerError,
	},
	ErrorCodeAccountNotFound: {
		Code:            ErrorCodeAccountNotFound,
		MessageTemplate: "account %s was not found",
		HTTPStatus:      http.StatusNotFound,
	},
	ErrorCodeAccountHasBalance: {
		Code:            ErrorCodeAccountHasBalance,
		MessageTemplate: "account %s cannot be blocked while it has a balance",
		HTTPStatus:      http.StatusUnprocessableEntity,
	},
	ErrorCodeCancellationFailed: {
		Code:            ErrorCodeCancellationFailed,
		MessageTemplate: "the block on account %s could not be cancelled",
		HTTPStatus:      http.StatusUnprocessableEntity,
	},
	ErrorCodeBlockedNoReference: {
		Code:            ErrorCodeBlockedNoReference,
		MessageTemplate: "account %s was blocked but no reference number was generated",
		HTTPStatus:      http.StatusInternalServerError,
	},
	ErrorCodeTimeout: {
		Code:            ErrorCodeTimeout,
		MessageTemplate: "request timeout exceeded",
		HTTPStatus:      http.StatusServiceUnavailable,
	},
}

// Lookup returns the catalog entry for a code.
// Unknown codes fall back to the generic internal-error entry so that no
// untranslated failure ever escapes to the boundary.
func Lookup(code string) CatalogEntry {
	if entry, ok := catalog[code]; ok {
		return entry
	}

	return catalog[ErrorCodeErrorProcess]
}

// NewErrorResponse creates an error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// NewCatalogErrorResponse builds the envelope from a catalog entry,
// interpolating the message template parameters.
func NewCatalogErrorResponse(code string, params ...any) *ErrorResponse {
	entry := Lookup(code)

	message := entry.MessageTemplate
	if len(params) > 0 {
		message = fmt.Sprintf(entry.MessageTemplate, params...)
	}

	return NewErrorResponse(entry.Code, message)
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps catalog codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	return Lookup(code).HTTPStatus
}
