package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/finvia/account-status-service/internal/adapters/clients"
	"github.com/finvia/account-status-service/internal/domain"
)

// remoteErrorResponse is the error body shape of the core banking API.
type remoteErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Remote error codes the core banking system is known to return.
const (
	remoteCodeAccountHasBalance  = "ACCOUNT_HAS_BALANCE"
	remoteCodeCancellationFailed = "CANCELLATION_FAILED"
	remoteCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
)

// parseRemoteError attempts to decode a remote error body.
// Returns nil when the body is empty or not the expected shape.
func parseRemoteError(body io.Reader) *remoteErrorResponse {
	if body == nil {
		return nil
	}

	var remote remoteErrorResponse
	if err := json.NewDecoder(body).Decode(&remote); err != nil {
		return nil
	}

	if remote.Code == "" && remote.Message == "" {
		return nil
	}

	return &remote
}

// translateRemoteError maps a 4xx core banking response to a domain error.
// 4xx responses are terminal: retrying an operation the remote refused
// will not change its mind.
func (c *CoreBankingClient) translateRemoteError(resp *http.Response, op domain.Operation, id domain.AccountID) error {
	remote := parseRemoteError(resp.Body)

	if remote != nil {
		switch remote.Code {
		case remoteCodeAccountNotFound:
			return domain.NewAccountNotFoundError(id)
		case remoteCodeAccountHasBalance:
			return domain.NewAccountHasBalanceError(id)
		case remoteCodeCancellationFailed:
			return domain.NewCancellationFailedError(id, remote.Message)
		}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.NewAccountNotFoundError(id)

	case http.StatusConflict, http.StatusUnprocessableEntity:
		if op == domain.OperationBlock {
			return domain.NewAccountHasBalanceError(id)
		}
		return domain.NewCancellationFailedError(id, messageOrStatus(remote, resp.StatusCode))

	default:
		return domain.NewProcessError(op, messageOrStatus(remote, resp.StatusCode))
	}
}

// translatePipelineError maps resilience-layer failures to domain errors.
// Terminal domain errors produced inside the protected call pass through
// untouched so they are translated exactly once.
func (c *CoreBankingClient) translatePipelineError(err error) error {
	service := c.client.ServiceName()

	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewProcessFailedError(service, "circuit breaker open")

	case errors.Is(err, clients.ErrRetriesExhausted):
		return domain.NewProcessFailedError(service, err.Error())
	}

	var callErr *clients.CallError
	if errors.As(err, &callErr) {
		// A terminal transport failure that never reached the retry
		// budget (context canceled, non-retryable network error).
		return domain.NewProcessFailedError(service, callErr.Error())
	}

	// Already a domain error from translateRemoteError or decoding.
	return err
}

// messageOrStatus prefers the remote message, falling back to the status code.
func messageOrStatus(remote *remoteErrorResponse, status int) string {
	if remote != nil && remote.Message != "" {
		return remote.Message
	}

	return fmt.Sprintf("core banking returned status %d", status)
}
