package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/edesaventas/storefront-api/internal/config"
	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const reorderListKey = "inventory:reorder"

// ReorderCache holds the formula-based reorder list between requests. The
// list is recomputed from every active product, so a short TTL keeps the
// interactive dashboard snappy without staleness concerns.
type ReorderCache interface {
	Get(ctx context.Context) ([]domain.ReorderCandidate, bool, error)
	Set(ctx context.Context, candidates []domain.ReorderCandidate) error
	Invalidate(ctx context.Context) error
}

type redisReorderCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReorderCache struct{}

func NewReorderCache(cfg config.CacheConfig) (ReorderCache, error) {
	if !cfg.Enabled {
		return &noopReorderCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReorderCache{client: client, ttl: ttl}, nil
}

func NewNoopReorderCache() ReorderCache {
	return &noopReorderCache{}
}

func (c *redisReorderCache) Get(ctx context.Context) ([]domain.ReorderCandidate, bool, error) {
	payload, err := c.client.Get(ctx, reorderListKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var candidates []domain.ReorderCandidate
	if err := json.Unmarshal(payload, &candidates); err != nil {
		return nil, false, fmt.Errorf("decode reorder cache: %w", err)
	}

	return candidates, true, nil
}

func (c *redisReorderCache) Set(ctx context.Context, candidates []domain.ReorderCandidate) error {
	payload, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("encode reorder cache: %w", err)
	}

	if err := c.client.Set(ctx, reorderListKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReorderCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, reorderListKey).Err()
}

func (n *noopReorderCache) Get(ctx context.Context) ([]domain.ReorderCandidate, bool, error) {
	return nil, false, nil
}

func (n *noopReorderCache) Set(ctx context.Context, candidates []domain.ReorderCandidate) error {
	return nil
}

func (n *noopReorderCache) Invalidate(ctx context.Context) error {
	return nil
}
