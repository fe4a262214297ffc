package collector

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"FlowState/internal/model"
)

// breakerSource wraps a Source with a circuit breaker so a provider that
// starts erroring stops eating its rate budget and request timeouts for a
// cool-down period. While the breaker is open Fetch fails fast and the
// collector falls back to an empty series for that metric.
type breakerSource struct {
	inner Source
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker decorates a source with a per-provider circuit breaker.
func WithBreaker(inner Source) Source {
	settings := gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("source", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}
	return &breakerSource{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breakerSource) Metric() model.Metric { return b.inner.Metric() }
func (b *breakerSource) Name() string         { return b.inner.Name() }

func (b *breakerSource) Fetch(ctx context.Context) ([]model.Point, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.Point), nil
}
