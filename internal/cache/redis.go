package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"FlowState/internal/telemetry"
)

// keyPrefix namespaces every cache entry so InvalidateAll never touches
// keys belonging to other tenants of the same Redis instance.
const keyPrefix = "flowstate:"

// RedisCache backs the series cache with Redis. Entries survive process
// restarts, which matters because the evaluation cron and the dashboard
// run in the same binary but restart independently of market hours.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		telemetry.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		telemetry.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	telemetry.CacheRequests.WithLabelValues("hit").Inc()
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

// InvalidateAll drops every namespaced key. Used by the manual refresh
// endpoint to force the next cycle onto live data.
func (c *RedisCache) InvalidateAll(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Str("key", iter.Val()).Msg("redis del failed")
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("redis scan failed during invalidation")
	}
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
