package collector

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"FlowState/internal/cache"
	"FlowState/internal/model"
)

// cachedSource serves a series from the cache when a fresh copy exists and
// refreshes it from the inner source otherwise. Empty fetch results are
// not cached: an unconfigured or failing source should retry next cycle
// instead of pinning "no data" for a full TTL.
type cachedSource struct {
	inner Source
	cache cache.Cache
	ttl   time.Duration
}

// WithCache decorates a source with TTL-based caching.
func WithCache(inner Source, c cache.Cache, ttl time.Duration) Source {
	return &cachedSource{inner: inner, cache: c, ttl: ttl}
}

func (s *cachedSource) Metric() model.Metric { return s.inner.Metric() }
func (s *cachedSource) Name() string         { return s.inner.Name() }

func (s *cachedSource) Fetch(ctx context.Context) ([]model.Point, error) {
	key := "series:" + s.inner.Metric().String()

	if data, ok := s.cache.Get(ctx, key); ok {
		var points []model.Point
		if err := json.Unmarshal(data, &points); err == nil {
			return points, nil
		}
		log.Warn().Str("key", key).Msg("corrupt cache entry, refetching")
	}

	points, err := s.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(points) > 0 {
		if data, err := json.Marshal(points); err == nil {
			s.cache.Set(ctx, key, data, s.ttl)
		}
	}
	return points, nil
}
