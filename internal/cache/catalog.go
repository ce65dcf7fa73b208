package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

const versionKey = "catalog:version"

// Catalog caches reference data reads (tag list, ingredient prefix search).
type Catalog interface {
	Tags(ctx context.Context, load func(context.Context) ([]*model.Tag, error)) ([]*model.Tag, error)
	Ingredients(ctx context.Context, prefix string, load func(context.Context) ([]*model.Ingredient, error)) ([]*model.Ingredient, error)
	// Invalidate drops every cached catalog entry.
	Invalidate(ctx context.Context) error
}

// RedisCatalog stores JSON snapshots under a versioned key space; Invalidate
// bumps the version so stale keys simply expire.
type RedisCatalog struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewRedisCatalog(client *redis.Client, ttl time.Duration) *RedisCatalog {
	return &RedisCatalog{client: client, ttl: ttl}
}

func (c *RedisCatalog) Tags(ctx context.Context, load func(context.Context) ([]*model.Tag, error)) ([]*model.Tag, error) {
	return cached(ctx, c, "tags", load)
}

func (c *RedisCatalog) Ingredients(ctx context.Context, prefix string, load func(context.Context) ([]*model.Ingredient, error)) ([]*model.Ingredient, error) {
	return cached(ctx, c, "ingredients:"+strings.ToLower(prefix), load)
}

func (c *RedisCatalog) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}

func (c *RedisCatalog) key(ctx context.Context, name string) string {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		logger.Warn("catalog cache version read failed", zap.Error(err))
	}
	return fmt.Sprintf("catalog:v%d:%s", v, name)
}

// cached 读缓存，未命中时回源并写回；redis 故障只降级不报错
func cached[T any](ctx context.Context, c *RedisCatalog, name string, load func(context.Context) ([]T, error)) ([]T, error) {
	key := c.key(ctx, name)
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var out []T
		if uErr := json.Unmarshal(data, &out); uErr == nil {
			c.hits.Add(1)
			return out, nil
		}
	}

	c.misses.Add(1)
	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(rows); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return rows, nil
}

// Stats 命中/未命中计数
func (c *RedisCatalog) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Passthrough 未启用 redis 时直接回源
type Passthrough struct{}

func (Passthrough) Tags(ctx context.Context, load func(context.Context) ([]*model.Tag, error)) ([]*model.Tag, error) {
	return load(ctx)
}

func (Passthrough) Ingredients(ctx context.Context, _ string, load func(context.Context) ([]*model.Ingredient, error)) ([]*model.Ingredient, error) {
	return load(ctx)
}

func (Passthrough) Invalidate(context.Context) error { return nil }
