package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/config"
	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	optimizationKeyPrefix     = "optimization:response"
	optimizationScanBatchSize = 100
)

// OptimizationKey identifies one cached optimization run. Responses are pure
// functions of these parameters plus the underlying data, so the TTL bounds
// how long a stale snapshot can be served.
type OptimizationKey struct {
	StoreID      int64   `json:"store_id"`
	LeadTimeDays int     `json:"lead_time_days"`
	ServiceLevel float64 `json:"service_level"`
}

type OptimizationCache interface {
	Get(ctx context.Context, key OptimizationKey) (*domain.OptimizationResponse, bool, error)
	Set(ctx context.Context, key OptimizationKey, resp *domain.OptimizationResponse) error
	InvalidateStore(ctx context.Context, storeID int64) error
	InvalidateAll(ctx context.Context) error
}

type redisOptimizationCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopOptimizationCache struct{}

func NewOptimizationCache(cfg config.CacheConfig) (OptimizationCache, error) {
	if !cfg.Enabled {
		return &noopOptimizationCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisOptimizationCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopOptimizationCache() OptimizationCache {
	return &noopOptimizationCache{}
}

func (c *redisOptimizationCache) Get(ctx context.Context, key OptimizationKey) (*domain.OptimizationResponse, bool, error) {
	payload, err := c.client.Get(ctx, buildOptimizationKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var resp domain.OptimizationResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, false, fmt.Errorf("decode optimization cache: %w", err)
	}

	return &resp, true, nil
}

func (c *redisOptimizationCache) Set(ctx context.Context, key OptimizationKey, resp *domain.OptimizationResponse) error {
	// Partial results are never cached; the next request should retry the
	// full batch.
	if resp == nil || resp.Incomplete {
		return nil
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode optimization cache: %w", err)
	}

	if err := c.client.Set(ctx, buildOptimizationKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisOptimizationCache) InvalidateStore(ctx context.Context, storeID int64) error {
	prefix := fmt.Sprintf("%s:%d:", optimizationKeyPrefix, storeID)
	return deleteKeysWithPrefix(ctx, c.client, prefix, optimizationScanBatchSize)
}

func (c *redisOptimizationCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, optimizationKeyPrefix, optimizationScanBatchSize)
}

func (n *noopOptimizationCache) Get(ctx context.Context, key OptimizationKey) (*domain.OptimizationResponse, bool, error) {
	return nil, false, nil
}

func (n *noopOptimizationCache) Set(ctx context.Context, key OptimizationKey, resp *domain.OptimizationResponse) error {
	return nil
}

func (n *noopOptimizationCache) InvalidateStore(ctx context.Context, storeID int64) error {
	return nil
}

func (n *noopOptimizationCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildOptimizationKey(key OptimizationKey) string {
	raw := fmt.Sprintf("lead_time=%d|service_level=%.4f", key.LeadTimeDays, key.ServiceLevel)
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%d:%s", optimizationKeyPrefix, key.StoreID, hex.EncodeToString(sum[:]))
}
