package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"openpayflow/internal/domain/entities"
)

const merchantCacheTTL = time.Hour

// MerchantCache is a read-through cache over MerchantRepository.GetByAPIKeyHash,
// modeled on the teacher's pkg/redis Get/Set helpers.
type MerchantCache struct {
	rdb *redis.Client
}

func NewMerchantCache(rdb *redis.Client) *MerchantCache {
	return &MerchantCache{rdb: rdb}
}

func merchantCacheKey(apiKeyHash string) string {
	return "merchant:" + apiKeyHash
}

// Get returns the cached merchant, or (nil, nil) on a cache miss.
func (c *MerchantCache) Get(ctx context.Context, apiKeyHash string) (*entities.Merchant, error) {
	raw, err := c.rdb.Get(ctx, merchantCacheKey(apiKeyHash)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m entities.Merchant
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Set populates the cache after a repository lookup (back-population).
func (c *MerchantCache) Set(ctx context.Context, m *entities.Merchant) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, merchantCacheKey(m.APIKeyHash), raw, merchantCacheTTL).Err()
}

// Invalidate drops the cached entry, used when a merchant is deactivated.
func (c *MerchantCache) Invalidate(ctx context.Context, apiKeyHash string) error {
	return c.rdb.Del(ctx, merchantCacheKey(apiKeyHash)).Err()
}
