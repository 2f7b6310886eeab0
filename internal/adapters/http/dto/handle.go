package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/finvia/account-status-service/internal/domain"
	"github.com/finvia/account-status-service/internal/platform/logging"
)

// MapDomainError translates a domain error into a catalog entry and the
// matching HTTP status. Every failure that reaches the boundary passes
// through here exactly once; unknown errors collapse into the generic
// internal entry so nothing untranslated ever escapes.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsInvalidInput(err):
		resp := NewErrorResponse(ErrorCodeInvalidInput, err.Error())

		var invalid *domain.InvalidInputError
		if errors.As(err, &invalid) && invalid.Field != "" {
			resp.Error.Details = map[string]string{
				invalid.Field: invalid.Message,
			}
		}

		return HTTPStatusFromCode(ErrorCodeInvalidInput), resp

	case domain.IsAccountNotFound(err):
		return catalogResponse(ErrorCodeAccountNotFound, accountParam(err))

	case domain.IsAccountHasBalance(err):
		return catalogResponse(ErrorCodeAccountHasBalance, accountParam(err))

	case domain.IsCancellationFailed(err):
		return catalogResponse(ErrorCodeCancellationFailed, accountParam(err))

	case domain.IsMissingBlockReference(err):
		return catalogResponse(ErrorCodeBlockedNoReference, accountParam(err))

	case domain.IsProcessFailed(err):
		return HTTPStatusFromCode(ErrorCodeFailedProcess),
			NewErrorResponse(ErrorCodeFailedProcess, err.Error())

	default:
		// Unknown errors get the generic entry to avoid leaking internals.
		return HTTPStatusFromCode(ErrorCodeErrorProcess),
			NewCatalogErrorResponse(ErrorCodeErrorProcess)
	}
}

// catalogResponse builds a (status, envelope) pair from a catalog code.
func catalogResponse(code string, params ...any) (int, *ErrorResponse) {
	return HTTPStatusFromCode(code), NewCatalogErrorResponse(code, params...)
}

// accountParam extracts the account identifier from typed errors for
// message interpolation.
func accountParam(err error) string {
	var notFound *domain.AccountNotFoundError
	if errors.As(err, &notFound) {
		return notFound.AccountID.String()
	}

	var hasBalance *domain.AccountHasBalanceError
	if errors.As(err, &hasBalance) {
		return hasBalance.AccountID.String()
	}

	var cancellation *domain.CancellationFailedError
	if errors.As(err, &cancellation) {
		return cancellation.AccountID.String()
	}

	var missingRef *domain.MissingBlockReferenceError
	if errors.As(err, &missingRef) {
		return missingRef.AccountID.String()
	}

	return "unknown"
}

// GetTraceID extracts the current trace ID from the request context.
// Returns empty string when no span is recording.
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// HandleError writes the translated error response for a domain error.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)

	if traceID := GetTraceID(c); traceID != "" {
		errResp.TraceID = traceID
	}

	// Log internal errors with full details; the response stays generic.
	if status == http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error("internal error",
			"error", err.Error(),
			"trace_id", errResp.TraceID,
		)
	}

	c.JSON(status, errResp)
}

// HandleErrorCode writes an error response with a specific catalog code.
// Use this for adapter-level failures (binding, identifier shape) that
// never reach the domain.
func HandleErrorCode(c *gin.Context, code, message string) {
	errResp := NewErrorResponse(code, message)

	if traceID := GetTraceID(c); traceID != "" {
		errResp.TraceID = traceID
	}

	c.JSON(HTTPStatusFromCode(code), errResp)
}

// HandleValidationErrors writes a 400 response with field-level details.
func HandleValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	errResp := NewErrorResponseWithDetails(
		ErrorCodeInvalidInput,
		"request validation failed",
		fieldErrors,
	)

	if traceID := GetTraceID(c); traceID != "" {
		errResp.TraceID = traceID
	}

	c.JSON(http.StatusBadRequest, errResp)
}
