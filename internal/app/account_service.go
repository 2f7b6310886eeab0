// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finvia/account-status-service/internal/domain"
	"github.com/finvia/account-status-service/internal/platform/logging"
	"github.com/finvia/account-status-service/internal/ports"
)

// AccountStatusService orchestrates account status changes.
// It validates the request with the operation's rule-set, routes to the
// protected core banking client, enforces the BLOCK reference-number
// invariant, and degrades through the fallback handler when the remote
// call could not complete.
type AccountStatusService struct {
	coreBanking ports.CoreBanking
	fallback    *FallbackHandler
	logger      *slog.Logger
}

// AccountStatusServiceConfig contains dependencies for the service.
type AccountStatusServiceConfig struct {
	CoreBanking ports.CoreBanking
	Fallback    *FallbackHandler
	Logger      *slog.Logger
}

// NewAccountStatusService creates the orchestrator.
// Panics if CoreBanking is nil. Defaults the fallback handler and logger.
func NewAccountStatusService(cfg AccountStatusServiceConfig) *AccountStatusService {
	if cfg.CoreBanking == nil {
		panic("AccountStatusService: CoreBanking is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fallback := cfg.Fallback
	if fallback == nil {
		fallback = NewFallbackHandler(logger)
	}

	return &AccountStatusService{
		coreBanking: cfg.CoreBanking,
		fallback:    fallback,
		logger:      logger.With(slog.String("component", "app.AccountStatusService")),
	}
}

// ChangeStatus executes a validated block or unblock against the core
// banking system.
//
// Outcomes:
//   - success: the remote result, invariant-checked for BLOCK
//   - degraded: Succeeded=false result when the circuit is open or
//     retries are exhausted
//   - failure: a typed domain error for everything else
func (s *AccountStatusService) ChangeStatus(ctx context.Context, req *domain.StatusRequest) (*domain.StatusResult, error) {
	logger := logging.FromContext(ctx).With(
		slog.String("account_id", req.AccountID.String()),
		slog.String("operation", req.Operation.String()),
	)

	if err := validateRequest(req); err != nil {
		logger.Warn("request rejected by validation", slog.Any("error", err))
		return nil, err
	}

	result, err := s.dispatch(ctx, req)
	if err != nil {
		return s.fallback.Handle(ctx, req, err)
	}

	if err := s.verifyResult(req, result); err != nil {
		logger.Error("remote result violated business invariant", slog.Any("error", err))
		return nil, err
	}

	logger.InfoContext(ctx, "account status changed",
		slog.Int64("reference_number", result.ReferenceNumber),
		slog.Bool("succeeded", result.Succeeded),
	)

	return result, nil
}

// dispatch routes the request to the protected client operation.
func (s *AccountStatusService) dispatch(ctx context.Context, req *domain.StatusRequest) (*domain.StatusResult, error) {
	switch req.Operation {
	case domain.OperationBlock:
		return s.coreBanking.BlockAccount(ctx, req.AccountID, *req.Block)
	case domain.OperationUnblock:
		return s.coreBanking.UnblockAccount(ctx, req.AccountID, *req.Unblock)
	default:
		// validateRequest has already rejected anything else.
		return nil, domain.NewInvalidInputError("operation", fmt.Sprintf("unknown operation %q", req.Operation))
	}
}

// verifyResult enforces business invariants on a successful remote result.
// This is the only place a remote success can be reinterpreted as a
// failure: a BLOCK without a positive reference number is remote data
// corruption and must never reach the caller as success.
func (s *AccountStatusService) verifyResult(req *domain.StatusRequest, result *domain.StatusResult) error {
	if req.Operation != domain.OperationBlock {
		return nil
	}

	if result.Succeeded && result.ReferenceNumber <= 0 {
		return domain.NewMissingBlockReferenceError(req.AccountID, result.ReferenceNumber)
	}

	return nil
}
