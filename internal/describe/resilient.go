package describe

import (
	"context"
	"time"

	"github.com/google/logger"
	"github.com/sony/gobreaker"
)

const defaultTimeout = 10 * time.Second

// Resilient calls a remote describer through a circuit breaker and substitutes the
// template text on any failure. It never returns an error.
type Resilient struct {
	remote  Describer
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

func NewResilient(remote Describer, timeout time.Duration) *Resilient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Resilient{
		remote: remote,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "describe",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
		timeout: timeout,
	}
}

func (r *Resilient) Describe(ctx context.Context, name, category string) (string, error) {
	if r.remote == nil {
		return Fallback(name, category), nil
	}

	out, err := r.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return r.remote.Describe(ctx, name, category)
	})
	if err != nil {
		logger.Warningf("describe %q: falling back to template: %v", name, err)
		return Fallback(name, category), nil
	}
	return out.(string), nil
}
