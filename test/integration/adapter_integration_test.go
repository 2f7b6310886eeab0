//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvia/account-status-service/internal/adapters/clients"
	"github.com/finvia/account-status-service/internal/adapters/http/dto"
)

const (
	integrationAccountID = "998170550014"
	integrationLockBody  = `{"operation":"lock","details":{"reason":"FRAUD","channel":"ONLINE"}}`
)

// coreBankingStub simulates the core banking HTTP API.
type coreBankingStub struct {
	lockStatus   int
	lockBody     string
	unlockStatus int
	unlockBody   string
	calls        atomic.Int32
}

func (s *coreBankingStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)

	status, body := s.lockStatus, s.lockBody
	if len(r.URL.Path) > 7 && r.URL.Path[len(r.URL.Path)-7:] == "/unlock" {
		status, body = s.unlockStatus, s.unlockBody
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestAccountStatus_LockEndToEnd(t *testing.T) {
	stub := &coreBankingStub{
		lockStatus: http.StatusOK,
		lockBody:   `{"referenceNumber":42,"status":"BLOCKED"}`,
	}
	h := newHarness(t, stub, defaultPipelineOptions())

	resp, body := h.putStatus(t, integrationAccountID, integrationLockBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.StatusChangeResponse
	require.NoError(t, json.Unmarshal(body, &result))

	assert.Equal(t, integrationAccountID, result.AccountID)
	assert.True(t, result.Succeeded)
	assert.Equal(t, int64(42), result.GeneratedReferenceNumber)
	assert.Equal(t, int32(1), stub.calls.Load())

	// Boundary middleware decorates every response.
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))
}

func TestAccountStatus_UnlockEndToEnd(t *testing.T) {
	stub := &coreBankingStub{
		unlockStatus: http.StatusOK,
		unlockBody:   `{"status":"UNBLOCKED"}`,
	}
	h := newHarness(t, stub, defaultPipelineOptions())

	resp, body := h.putStatus(t, integrationAccountID,
		`{"operation":"unlock","details":{"blockReferenceNumber":42,"requestedBy":"ops-team"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.StatusChangeResponse
	require.NoError(t, json.Unmarshal(body, &result))

	assert.True(t, result.Succeeded)
	assert.Zero(t, result.GeneratedReferenceNumber)
}

func TestAccountStatus_InvalidIdentifierNeverReachesCore(t *testing.T) {
	stub := &coreBankingStub{lockStatus: http.StatusOK, lockBody: `{"referenceNumber":1}`}
	h := newHarness(t, stub, defaultPipelineOptions())

	resp, body := h.putStatus(t, "12345", integrationLockBody)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))

	assert.Equal(t, dto.ErrorCodeBadRequest, errResp.Error.Code)
	assert.Zero(t, stub.calls.Load())
}

func TestAccountStatus_RemoteBusinessErrorsMapToCatalog(t *testing.T) {
	tests := []struct {
		name       string
		coreStatus int
		coreBody   string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "account not found",
			coreStatus: http.StatusNotFound,
			coreBody:   `{"code":"ACCOUNT_NOT_FOUND","message":"no such account"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrorCodeAccountNotFound,
		},
		{
			name:       "account has balance",
			coreStatus: http.StatusUnprocessableEntity,
			coreBody:   `{"code":"ACCOUNT_HAS_BALANCE","message":"balance is not zero"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrorCodeAccountHasBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &coreBankingStub{lockStatus: tt.coreStatus, lockBody: tt.coreBody}
			h := newHarness(t, stub, defaultPipelineOptions())

			resp, body := h.putStatus(t, integrationAccountID, integrationLockBody)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			var errResp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, tt.wantCode, errResp.Error.Code)

			// Business refusals are terminal, one core call only.
			assert.Equal(t, int32(1), stub.calls.Load())
		})
	}
}

func TestAccountStatus_RemoteOutageDegrades(t *testing.T) {
	stub := &coreBankingStub{lockStatus: http.StatusServiceUnavailable}

	opts := defaultPipelineOptions()
	opts.retry.MaxAttempts = 2
	h := newHarness(t, stub, opts)

	resp, body := h.putStatus(t, integrationAccountID, integrationLockBody)

	// Exhausted retries degrade into a well-formed 200 with succeeded=false.
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.StatusChangeResponse
	require.NoError(t, json.Unmarshal(body, &result))

	assert.False(t, result.Succeeded)
	assert.Zero(t, result.GeneratedReferenceNumber)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestAccountStatus_OpenBreakerShortCircuits(t *testing.T) {
	stub := &coreBankingStub{lockStatus: http.StatusOK, lockBody: `{"referenceNumber":42}`}
	h := newHarness(t, stub, defaultPipelineOptions())

	for i := 0; i < 50; i++ {
		h.breaker.RecordFailure()
	}
	require.Equal(t, clients.StateOpen, h.breaker.State())

	resp, body := h.putStatus(t, integrationAccountID, integrationLockBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.StatusChangeResponse
	require.NoError(t, json.Unmarshal(body, &result))

	assert.False(t, result.Succeeded)
	assert.Zero(t, stub.calls.Load())
}

func TestAccountStatus_ReadinessReflectsBreakerState(t *testing.T) {
	stub := &coreBankingStub{lockStatus: http.StatusOK, lockBody: `{"referenceNumber":42}`}
	h := newHarness(t, stub, defaultPipelineOptions())

	resp, err := http.Get(h.service.URL + "/-/ready")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for i := 0; i < 50; i++ {
		h.breaker.RecordFailure()
	}

	resp, err = http.Get(h.service.URL + "/-/ready")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// Liveness stays green regardless of downstream health.
	resp, err = http.Get(h.service.URL + "/-/live")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
