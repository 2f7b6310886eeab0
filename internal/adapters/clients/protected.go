package clients

import "context"

// Protector composes the circuit breaker around the retry policy:
//
//	breaker( retry( call ) )
//
// One protected invocation contributes exactly one outcome to the breaker
// window, however many attempts the retrier spent on it. A breaker
// rejection means no attempt was made and no retry was consumed.
type Protector struct {
	breaker *CircuitBreaker
	retrier *Retrier
}

// NewProtector wires a breaker and a retrier into one protected caller.
func NewProtector(breaker *CircuitBreaker, retrier *Retrier) *Protector {
	return &Protector{
		breaker: breaker,
		retrier: retrier,
	}
}

// Execute runs fn through the full pipeline.
// Returns ErrCircuitOpen on rejection, ErrRetriesExhausted (wrapping the
// last attempt's error) on exhaustion, or fn's terminal error unchanged.
func (p *Protector) Execute(ctx context.Context, fn func(context.Context) error) error {
	return p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.retrier.Execute(ctx, fn)
	})
}

// CircuitState exposes the breaker state, for readiness reporting.
func (p *Protector) CircuitState() State {
	return p.breaker.State()
}
