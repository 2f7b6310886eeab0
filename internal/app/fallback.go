package app

import (
	"context"
	"log/slog"

	"github.com/finvia/account-status-service/internal/domain"
	"github.com/finvia/account-status-service/internal/platform/logging"
)

// FallbackHandler produces a degraded-but-well-formed result when the
// protected call could not complete. It performs no remote work and either
// returns a valid result or re-raises the failure; it never swallows one.
type FallbackHandler struct {
	logger *slog.Logger
}

// NewFallbackHandler creates a fallback handler.
func NewFallbackHandler(logger *slog.Logger) *FallbackHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &FallbackHandler{
		logger: logger.With(slog.String("component", "app.FallbackHandler")),
	}
}

// Handle decides the degraded outcome for a failed status change.
// Only process-failed errors (circuit open, retries exhausted) degrade
// into a StatusResult with Succeeded=false and no reference number; any
// other failure is re-raised for the exception translator.
func (f *FallbackHandler) Handle(ctx context.Context, req *domain.StatusRequest, cause error) (*domain.StatusResult, error) {
	if !domain.IsProcessFailed(cause) {
		return nil, cause
	}

	logging.FromContext(ctx).Warn("returning degraded result",
		slog.String("account_id", req.AccountID.String()),
		slog.String("operation", req.Operation.String()),
		slog.Any("cause", cause),
	)

	return &domain.StatusResult{
		AccountID: req.AccountID,
		Operation: req.Operation,
		Succeeded: false,
	}, nil
}
