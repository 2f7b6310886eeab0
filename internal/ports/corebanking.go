// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/finvia/account-status-service/internal/domain"
)

// CoreBanking is the protected client for the external core banking system.
// Implementations own the full resilience pipeline (circuit breaker, retry,
// per-call timeout) and surface only domain results and domain errors.
type CoreBanking interface {
	// BlockAccount places a block on the account.
	// A successful result carries the reference number generated by the
	// core banking system. Failure classes:
	//   - domain.ErrAccountNotFound, domain.ErrAccountHasBalance,
	//     domain.ErrProcessError: terminal remote refusals
	//   - domain.ErrProcessFailed: circuit open or retries exhausted
	BlockAccount(ctx context.Context, id domain.AccountID, details domain.BlockDetails) (*domain.StatusResult, error)

	// UnblockAccount lifts an existing block.
	// Failure classes mirror BlockAccount, with
	// domain.ErrCancellationFailed replacing the balance refusal.
	UnblockAccount(ctx context.Context, id domain.AccountID, details domain.UnblockDetails) (*domain.StatusResult, error)
}
