package benchmark

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finvia/account-status-service/internal/adapters/clients"
	"github.com/finvia/account-status-service/internal/adapters/http/handlers"
	"github.com/finvia/account-status-service/internal/app"
	"github.com/finvia/account-status-service/internal/domain"
	"github.com/finvia/account-status-service/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	return c
}

// staticCoreBanking answers every call locally with a fixed result so the
// benchmark measures the service stack, not network latency.
type staticCoreBanking struct{}

func (staticCoreBanking) BlockAccount(_ context.Context, id domain.AccountID, _ domain.BlockDetails) (*domain.StatusResult, error) {
	return &domain.StatusResult{
		AccountID:       id,
		Operation:       domain.OperationBlock,
		ReferenceNumber: 42,
		Succeeded:       true,
	}, nil
}

func (staticCoreBanking) UnblockAccount(_ context.Context, id domain.AccountID, _ domain.UnblockDetails) (*domain.StatusResult, error) {
	return &domain.StatusResult{
		AccountID: id,
		Operation: domain.OperationUnblock,
		Succeeded: true,
	}, nil
}

// healthyChecker is a minimal health checker for benchmarking.
type healthyChecker struct {
	name string
}

func (h *healthyChecker) Name() string {
	return h.name
}

func (h *healthyChecker) Check(_ context.Context) error {
	return nil
}

// setupHealthHandler creates a HealthHandler with a minimal registry for benchmarking.
func setupHealthHandler() *handlers.HealthHandler {
	registry := ports.NewHealthRegistry()
	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")
	return handlers.NewHealthHandler(registry, buildInfo)
}

// setupStatusRouter builds the status endpoint on a bare engine.
func setupStatusRouter() *gin.Engine {
	service := app.NewAccountStatusService(app.AccountStatusServiceConfig{
		CoreBanking: staticCoreBanking{},
	})

	engine := gin.New()
	handlers.NewAccountStatusHandler(service).RegisterAccountRoutes(engine.Group("/api/v1"))

	return engine
}

// BenchmarkLivenessHandler measures the performance of the liveness endpoint.
// This is a critical path for Kubernetes probes and should be extremely fast.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Liveness(c)
	}
}

// BenchmarkReadinessHandler measures readiness with a registered check,
// matching the production wiring where the core banking adapter reports
// its breaker state.
func BenchmarkReadinessHandler(b *testing.B) {
	registry := ports.NewHealthRegistry()
	_ = registry.Register(&healthyChecker{name: "core-banking"})

	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")
	handler := handlers.NewHealthHandler(registry, buildInfo)
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Readiness(c)
	}
}

// BenchmarkChangeStatusHandler measures the full handler path for a block:
// identifier parsing, binding, validation, orchestration and response
// translation, with the remote call stubbed out.
func BenchmarkChangeStatusHandler(b *testing.B) {
	engine := setupStatusRouter()
	body := `{"operation":"lock","details":{"reason":"FRAUD","channel":"ONLINE"}}`

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPut,
			"/api/v1/accounts/998170550014/status", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
	}
}

// BenchmarkChangeStatusHandler_Rejected measures the boundary rejection
// path, which must stay cheap since it absorbs malformed traffic.
func BenchmarkChangeStatusHandler_Rejected(b *testing.B) {
	engine := setupStatusRouter()
	body := `{"operation":"lock","details":{"reason":"FRAUD","channel":"ONLINE"}}`

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPut,
			"/api/v1/accounts/12345/status", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
	}
}

// BenchmarkCircuitBreaker_ClosedPath measures the breaker bookkeeping on
// the hot path of a successful call.
func BenchmarkCircuitBreaker_ClosedPath(b *testing.B) {
	cb := clients.NewCircuitBreaker("core-banking", clients.CircuitBreakerConfig{
		SlidingWindowSize:             10,
		MinimumNumberOfCalls:          5,
		FailureRateThreshold:          0.5,
		WaitDurationInOpenState:       time.Minute,
		PermittedCallsInHalfOpenState: 3,
	})

	ctx := context.Background()
	noop := func(context.Context) error { return nil }

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = cb.Execute(ctx, noop)
	}
}

// BenchmarkProtector_SuccessPath measures the combined breaker+retry
// overhead around a call that succeeds immediately.
func BenchmarkProtector_SuccessPath(b *testing.B) {
	cb := clients.NewCircuitBreaker("core-banking", clients.CircuitBreakerConfig{
		SlidingWindowSize:             10,
		MinimumNumberOfCalls:          5,
		FailureRateThreshold:          0.5,
		WaitDurationInOpenState:       time.Minute,
		PermittedCallsInHalfOpenState: 3,
	})
	retrier := clients.NewRetrier(clients.RetryConfig{
		MaxAttempts:       3,
		InterAttemptDelay: 10 * time.Millisecond,
	}, nil)
	protector := clients.NewProtector(cb, retrier)

	ctx := context.Background()
	noop := func(context.Context) error { return nil }

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = protector.Execute(ctx, noop)
	}
}

// BenchmarkParseAccountID measures identifier validation, executed once
// per inbound request.
func BenchmarkParseAccountID(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = domain.ParseAccountID("998170550014")
	}
}
