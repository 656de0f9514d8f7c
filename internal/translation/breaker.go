package translation

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerProvider wraps a Provider in a circuit breaker. Once maxFailures
// consecutive requests fail, further calls fail immediately with
// gobreaker.ErrOpenState instead of reaching the API.
type BreakerProvider struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker
}

// NewBreaker creates a circuit-breaking provider around inner
func NewBreaker(inner Provider, maxFailures int) *BreakerProvider {
	if maxFailures < 1 {
		maxFailures = 1
	}

	settings := gobreaker.Settings{
		Name: inner.Name(),
		// The breaker stays open for the rest of a batch run.
		Timeout: 24 * time.Hour,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
	}

	return &BreakerProvider{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Translate forwards to the wrapped provider unless the breaker is open
func (b *BreakerProvider) Translate(ctx context.Context, text, prompt string) (*Result, error) {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.Translate(ctx, text, prompt)
	})
	if err != nil {
		return nil, err
	}
	return out.(*Result), nil
}

// Name returns the wrapped provider name
func (b *BreakerProvider) Name() string {
	return fmt.Sprintf("%s (circuit breaker)", b.inner.Name())
}

// Open reports whether the breaker has tripped
func (b *BreakerProvider) Open() bool {
	return b.breaker.State() == gobreaker.StateOpen
}
