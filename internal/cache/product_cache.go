package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-cart-catalog/internal/model"

	"github.com/redis/go-redis/v9"
)

const keyNamespace = "shop:product"

// ProductCache holds product rows keyed by id. A miss is (nil, false, nil).
type ProductCache interface {
	Get(ctx context.Context, id uint) (*model.Product, bool, error)
	Set(ctx context.Context, product *model.Product) error
	Invalidate(ctx context.Context, ids ...uint) error
}

type redisProductCache struct {
	store redis.Cmdable
	ttl   time.Duration
}

func NewRedisProductCache(client redis.Cmdable, ttl time.Duration) ProductCache {
	return &redisProductCache{store: client, ttl: ttl}
}

func key(id uint) string {
	return keyNamespace + ":" + strconv.FormatUint(uint64(id), 10)
}

func (c *redisProductCache) Get(ctx context.Context, id uint) (*model.Product, bool, error) {
	raw, err := c.store.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var product model.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, false, fmt.Errorf("decode cached product %d: %w", id, err)
	}
	return &product, true, nil
}

func (c *redisProductCache) Set(ctx context.Context, product *model.Product) error {
	payload, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key(product.ID), payload, c.ttl).Err()
}

func (c *redisProductCache) Invalidate(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}
	return c.store.Del(ctx, keys...).Err()
}

type noopProductCache struct{}

// NewNoop is used when no redis URL is configured.
func NewNoop() ProductCache {
	return noopProductCache{}
}

func (noopProductCache) Get(context.Context, uint) (*model.Product, bool, error) {
	return nil, false, nil
}

func (noopProductCache) Set(context.Context, *model.Product) error {
	return nil
}

func (noopProductCache) Invalidate(context.Context, ...uint) error {
	return nil
}
