// Package acl implements the Anti-Corruption Layer for the core banking
// system. It translates between the remote wire models and domain types,
// owns the protected call pipeline, and maps every remote or pipeline
// failure to a typed domain error.
package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/finvia/account-status-service/internal/adapters/clients"
	"github.com/finvia/account-status-service/internal/domain"
)

// CoreBankingClientConfig contains configuration for the core banking adapter.
type CoreBankingClientConfig struct {
	// Client is the raw HTTP client, its BaseURL pointing at the core
	// banking API.
	Client *clients.Client

	// Protector is the breaker+retry pipeline for this remote target.
	Protector *clients.Protector

	// Logger is the structured logger.
	Logger *slog.Logger
}

// CoreBankingClient implements ports.CoreBanking against the core banking
// HTTP API. Every operation goes through the protected pipeline; the raw
// client never retries on its own.
type CoreBankingClient struct {
	client    *clients.Client
	protector *clients.Protector
	logger    *slog.Logger
}

// NewCoreBankingClient creates the core banking adapter.
// Panics if Client or Protector is nil. Defaults logger to slog.Default().
func NewCoreBankingClient(cfg CoreBankingClientConfig) *CoreBankingClient {
	if cfg.Client == nil {
		panic("CoreBankingClient: Client is required")
	}

	if cfg.Protector == nil {
		panic("CoreBankingClient: Protector is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CoreBankingClient{
		client:    cfg.Client,
		protector: cfg.Protector,
		logger:    logger.With(slog.String("component", "acl.CoreBankingClient")),
	}
}

// lockRequest is the wire model for a block call.
// Internal type - never exposed outside the ACL.
type lockRequest struct {
	Reason  string `json:"reason"`
	Channel string `json:"channel"`
}

// lockResponse is the wire model returned by a successful block call.
type lockResponse struct {
	ReferenceNumber int64  `json:"referenceNumber"`
	Status          string `json:"status"`
}

// unlockRequest is the wire model for an unblock call.
type unlockRequest struct {
	BlockReferenceNumber int64  `json:"blockReferenceNumber"`
	RequestedBy          string `json:"requestedBy"`
}

// unlockResponse is the wire model returned by a successful unblock call.
type unlockResponse struct {
	Status string `json:"status"`
}

// BlockAccount places a block on the account.
// Implements ports.CoreBanking.
func (c *CoreBankingClient) BlockAccount(ctx context.Context, id domain.AccountID, details domain.BlockDetails) (*domain.StatusResult, error) {
	path := fmt.Sprintf("/v1/accounts/%s/lock", id)

	payload, err := json.Marshal(lockRequest{
		Reason:  string(details.Reason),
		Channel: string(details.Channel),
	})
	if err != nil {
		return nil, domain.NewProcessError(domain.OperationBlock, fmt.Sprintf("encoding request: %v", err))
	}

	var external lockResponse

	err = c.protector.Execute(ctx, func(ctx context.Context) error {
		return c.call(ctx, path, payload, domain.OperationBlock, id, &external)
	})
	if err != nil {
		return nil, c.translatePipelineError(err)
	}

	c.logger.DebugContext(ctx, "account blocked",
		slog.String("account_id", id.String()),
		slog.Int64("reference_number", external.ReferenceNumber),
	)

	return &domain.StatusResult{
		AccountID:       id,
		Operation:       domain.OperationBlock,
		ReferenceNumber: external.ReferenceNumber,
		Succeeded:       true,
	}, nil
}

// UnblockAccount lifts an existing block.
// Implements ports.CoreBanking.
func (c *CoreBankingClient) UnblockAccount(ctx context.Context, id domain.AccountID, details domain.UnblockDetails) (*domain.StatusResult, error) {
	path := fmt.Sprintf("/v1/accounts/%s/unlock", id)

	payload, err := json.Marshal(unlockRequest{
		BlockReferenceNumber: details.BlockReference,
		RequestedBy:          details.RequestedBy,
	})
	if err != nil {
		return nil, domain.NewProcessError(domain.OperationUnblock, fmt.Sprintf("encoding request: %v", err))
	}

	var external unlockResponse

	err = c.protector.Execute(ctx, func(ctx context.Context) error {
		return c.call(ctx, path, payload, domain.OperationUnblock, id, &external)
	})
	if err != nil {
		return nil, c.translatePipelineError(err)
	}

	c.logger.DebugContext(ctx, "account unblocked",
		slog.String("account_id", id.String()),
	)

	return &domain.StatusResult{
		AccountID: id,
		Operation: domain.OperationUnblock,
		Succeeded: true,
	}, nil
}

// call performs one remote attempt and decodes the response into out.
// Transport failures and 5xx responses surface as retryable clients
// errors; 4xx responses and malformed bodies come back as terminal domain
// errors that stop the retry loop immediately.
func (c *CoreBankingClient) call(ctx context.Context, path string, payload []byte, op domain.Operation, id domain.AccountID, out any) error {
	resp, err := c.client.Post(ctx, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.translateRemoteError(resp, op, id)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A malformed success body is remote data corruption, not a
		// transient condition.
		return domain.NewProcessError(op, fmt.Sprintf("decoding response: %v", err))
	}

	return nil
}

// CircuitState exposes the breaker state for readiness reporting.
func (c *CoreBankingClient) CircuitState() clients.State {
	return c.protector.CircuitState()
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *CoreBankingClient) Name() string {
	return c.client.ServiceName()
}

// Check reports unhealthy while the breaker is open.
// Implements ports.HealthChecker. It deliberately performs no remote call:
// the breaker already tracks remote health, and probing from the readiness
// path would double the load on a struggling core banking system.
func (c *CoreBankingClient) Check(_ context.Context) error {
	if state := c.protector.CircuitState(); state != clients.StateClosed {
		return fmt.Errorf("circuit breaker is %s", state)
	}

	return nil
}
