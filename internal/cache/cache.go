package cache

import (
	"context"
	"time"
)

// Cache stores fetched series payloads between evaluation cycles so that
// repeated dashboard loads do not hammer the upstream data providers. A
// cache failure is never fatal: Get simply reports a miss and the caller
// falls through to the live fetch.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	InvalidateAll(ctx context.Context)
}
