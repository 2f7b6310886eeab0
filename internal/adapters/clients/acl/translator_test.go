package acl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvia/account-status-service/internal/adapters/clients"
	"github.com/finvia/account-status-service/internal/domain"
)

// newTranslatorClient builds an adapter that is never used to make real
// calls, only to exercise the translation methods.
func newTranslatorClient(t *testing.T) *CoreBankingClient {
	t.Helper()

	client, err := clients.New(&clients.Config{
		BaseURL:     "http://localhost:9090",
		ServiceName: "core-banking",
		Timeout:     time.Second,
	})
	require.NoError(t, err)

	breaker := clients.NewCircuitBreaker("core-banking", clients.CircuitBreakerConfig{
		SlidingWindowSize:             10,
		MinimumNumberOfCalls:          10,
		FailureRateThreshold:          0.5,
		WaitDurationInOpenState:       time.Minute,
		PermittedCallsInHalfOpenState: 1,
	})
	retrier := clients.NewRetrier(clients.RetryConfig{
		MaxAttempts:       1,
		InterAttemptDelay: time.Millisecond,
	}, nil)

	return NewCoreBankingClient(CoreBankingClientConfig{
		Client:    client,
		Protector: clients.NewProtector(breaker, retrier),
	})
}

func remoteResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseRemoteError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *remoteErrorResponse
	}{
		{
			name: "full body",
			body: `{"code":"ACCOUNT_NOT_FOUND","message":"gone"}`,
			want: &remoteErrorResponse{Code: "ACCOUNT_NOT_FOUND", Message: "gone"},
		},
		{
			name: "message only",
			body: `{"message":"nope"}`,
			want: &remoteErrorResponse{Message: "nope"},
		},
		{
			name: "empty object",
			body: `{}`,
			want: nil,
		},
		{
			name: "not json",
			body: `<html>Bad Gateway</html>`,
			want: nil,
		},
		{
			name: "empty body",
			body: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRemoteError(strings.NewReader(tt.body))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRemoteError_NilBody(t *testing.T) {
	assert.Nil(t, parseRemoteError(nil))
}

func TestTranslateRemoteError(t *testing.T) {
	id := domain.AccountID("998170550014")

	tests := []struct {
		name   string
		status int
		body   string
		op     domain.Operation
		check  func(t *testing.T, err error)
	}{
		{
			name:   "code wins over status",
			status: http.StatusConflict,
			body:   `{"code":"ACCOUNT_NOT_FOUND","message":"not here"}`,
			op:     domain.OperationBlock,
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsAccountNotFound(err))
			},
		},
		{
			name:   "has balance code",
			status: http.StatusUnprocessableEntity,
			body:   `{"code":"ACCOUNT_HAS_BALANCE","message":"12.50 remaining"}`,
			op:     domain.OperationBlock,
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsAccountHasBalance(err))
			},
		},
		{
			name:   "cancellation failed code carries message",
			status: http.StatusUnprocessableEntity,
			body:   `{"code":"CANCELLATION_FAILED","message":"under review"}`,
			op:     domain.OperationUnblock,
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsCancellationFailed(err))
				assert.Contains(t, err.Error(), "under review")
			},
		},
		{
			name:   "bare 404 maps to not found",
			status: http.StatusNotFound,
			body:   "",
			op:     domain.OperationUnblock,
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsAccountNotFound(err))
			},
		},
		{
			name:   "bare conflict on block maps to has balance",
			status: http.StatusConflict,
			body:   "",
			op:     domain.OperationBlock,
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsAccountHasBalance(err))
			},
		},
		{
			name:   "bare conflict on unblock maps to cancellation failed",
			status: http.StatusConflict,
			body:   "",
			op:     domain.OperationUnblock,
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsCancellationFailed(err))
				assert.Contains(t, err.Error(), "409")
			},
		},
		{
			name:   "unknown status becomes process error",
			status: http.StatusForbidden,
			body:   `{"code":"POLICY_VIOLATION","message":"blocked by policy"}`,
			op:     domain.OperationBlock,
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsProcessError(err))
				assert.Contains(t, err.Error(), "blocked by policy")
			},
		},
		{
			name:   "unknown status without body falls back to status code",
			status: http.StatusBadRequest,
			body:   "",
			op:     domain.OperationUnblock,
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsProcessError(err))
				assert.Contains(t, err.Error(), "400")
			},
		},
	}

	client := newTranslatorClient(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.translateRemoteError(remoteResponse(tt.status, tt.body), tt.op, id)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestTranslatePipelineError(t *testing.T) {
	client := newTranslatorClient(t)

	t.Run("circuit open degrades", func(t *testing.T) {
		err := client.translatePipelineError(clients.ErrCircuitOpen)
		assert.True(t, domain.IsProcessFailed(err))
		assert.Contains(t, err.Error(), "circuit breaker open")
	})

	t.Run("retries exhausted degrades", func(t *testing.T) {
		wrapped := fmt.Errorf("%w after 3 attempts: connection refused", clients.ErrRetriesExhausted)

		err := client.translatePipelineError(wrapped)
		assert.True(t, domain.IsProcessFailed(err))
		assert.Contains(t, err.Error(), "core-banking")
	})

	t.Run("stray call error degrades", func(t *testing.T) {
		callErr := &clients.CallError{
			Service: "core-banking",
			Err:     context.Canceled,
		}

		err := client.translatePipelineError(callErr)
		assert.True(t, domain.IsProcessFailed(err))
	})

	t.Run("domain error passes through untouched", func(t *testing.T) {
		original := domain.NewAccountNotFoundError("998170550014")

		err := client.translatePipelineError(original)
		assert.Same(t, original, err)
	})
}
