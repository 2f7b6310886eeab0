//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/finvia/account-status-service/internal/adapters/clients"
	"github.com/finvia/account-status-service/internal/adapters/clients/acl"
	adapterhttp "github.com/finvia/account-status-service/internal/adapters/http"
	"github.com/finvia/account-status-service/internal/adapters/http/handlers"
	"github.com/finvia/account-status-service/internal/app"
	"github.com/finvia/account-status-service/internal/platform/config"
	"github.com/finvia/account-status-service/internal/ports"
)

// pipelineOptions tune the resilience pipeline for a test harness.
// Defaults keep the breaker effectively out of the way.
type pipelineOptions struct {
	retry   clients.RetryConfig
	breaker clients.CircuitBreakerConfig
	timeout time.Duration
}

func defaultPipelineOptions() pipelineOptions {
	return pipelineOptions{
		retry: clients.RetryConfig{
			MaxAttempts:       3,
			InterAttemptDelay: 10 * time.Millisecond,
		},
		breaker: clients.CircuitBreakerConfig{
			SlidingWindowSize:             50,
			MinimumNumberOfCalls:          50,
			FailureRateThreshold:          0.5,
			WaitDurationInOpenState:       time.Minute,
			PermittedCallsInHalfOpenState: 1,
		},
		timeout: 2 * time.Second,
	}
}

// harness is a fully wired service instance talking to a stubbed core
// banking system, both running on loopback httptest servers.
type harness struct {
	service *httptest.Server
	core    *httptest.Server
	breaker *clients.CircuitBreaker
}

// newHarness wires the complete stack the way cmd/service does, minus
// telemetry export, and serves it over httptest.
func newHarness(t *testing.T, coreHandler http.Handler, opts pipelineOptions) *harness {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	core := httptest.NewServer(coreHandler)
	t.Cleanup(core.Close)

	client, err := clients.New(&clients.Config{
		BaseURL:     core.URL,
		ServiceName: "core-banking",
		Timeout:     opts.timeout,
		Logger:      logger,
	})
	require.NoError(t, err)

	breaker := clients.NewCircuitBreaker("core-banking", opts.breaker)
	retrier := clients.NewRetrier(opts.retry, nil)

	coreBanking := acl.NewCoreBankingClient(acl.CoreBankingClientConfig{
		Client:    client,
		Protector: clients.NewProtector(breaker, retrier),
		Logger:    logger,
	})

	registry := ports.NewHealthRegistry()
	_ = registry.Register(coreBanking)

	service := app.NewAccountStatusService(app.AccountStatusServiceConfig{
		CoreBanking: coreBanking,
		Fallback:    app.NewFallbackHandler(logger),
		Logger:      logger,
	})

	engine := gin.New()
	adapterhttp.SetupRouter(engine, adapterhttp.RouterConfig{
		Logger:    logger,
		AppConfig: &config.AppConfig{Name: "account-status-service", Version: "test", Environment: "test"},
		HealthHandler: handlers.NewHealthHandler(registry,
			handlers.NewBuildInfo("test", "none", "none")),
		AccountStatusHandler: handlers.NewAccountStatusHandler(service),
		Timeout:              5 * time.Second,
	})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return &harness{service: srv, core: core, breaker: breaker}
}

// putStatus issues a status change request against the harness service.
func (h *harness) putStatus(t *testing.T, accountID, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPut,
		h.service.URL+"/api/v1/accounts/"+accountID+"/status",
		strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, data
}
