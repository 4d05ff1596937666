package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const idempotencyCacheTTL = 24 * time.Hour

// IdempotencyCache maps (merchantId, idempotencyKey) to a payment id only.
// The Payment itself is always re-read from the store on a hit, so a status
// update that lands after the cache was populated is never served stale.
type IdempotencyCache struct {
	rdb *redis.Client
}

func NewIdempotencyCache(rdb *redis.Client) *IdempotencyCache {
	return &IdempotencyCache{rdb: rdb}
}

func idempotencyCacheKey(merchantID uuid.UUID, key string) string {
	return "idempotency:" + merchantID.String() + ":" + key
}

// Get returns the cached payment id, or (uuid.Nil, nil) on a cache miss.
func (c *IdempotencyCache) Get(ctx context.Context, merchantID uuid.UUID, key string) (uuid.UUID, error) {
	raw, err := c.rdb.Get(ctx, idempotencyCacheKey(merchantID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(raw)
}

// Set back-populates the cache after a store read or a fresh insert.
func (c *IdempotencyCache) Set(ctx context.Context, merchantID uuid.UUID, key string, paymentID uuid.UUID) error {
	return c.rdb.Set(ctx, idempotencyCacheKey(merchantID, key), paymentID.String(), idempotencyCacheTTL).Err()
}
