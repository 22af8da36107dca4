package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProductCache stores product reads keyed by id.
type ProductCache interface {
	Get(ctx context.Context, id int64) (Product, bool, error)
	Set(ctx context.Context, p Product) error
	Invalidate(ctx context.Context, ids ...int64) error
}

type RedisProductCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisProductCache(client redis.Cmdable, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, prefix: "shop:product:", ttl: ttl}
}

func (c *RedisProductCache) key(id int64) string {
	return c.prefix + strconv.FormatInt(id, 10)
}

func (c *RedisProductCache) Get(ctx context.Context, id int64) (Product, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Product{}, false, nil
		}
		return Product{}, false, fmt.Errorf("cache get: %w", err)
	}

	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return Product{}, false, fmt.Errorf("cache decode: %w", err)
	}
	return p, true, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(p.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RedisProductCache) Invalidate(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, c.key(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
