package cache

import (
	"context"
	"testing"
	"time"

	"go-cart-catalog/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (ProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisProductCache(client, time.Minute), mr
}

func TestRedisProductCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	product := &model.Product{
		Name:      "Desk Lamp",
		Price:     decimal.RequireFromString("25.50"),
		SalePrice: decimal.NullDecimal{Decimal: decimal.RequireFromString("19.99"), Valid: true},
		Quantity:  4,
	}
	product.ID = 12
	product.Version = 3

	_, ok, err := c.Get(ctx, 12)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, product))
	assert.True(t, mr.Exists("shop:product:12"))
	assert.Equal(t, time.Minute, mr.TTL("shop:product:12"))

	cached, ok, err := c.Get(ctx, 12)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Desk Lamp", cached.Name)
	assert.Equal(t, 3, cached.Version)
	assert.True(t, product.Price.Equal(cached.Price))
	assert.True(t, cached.SalePrice.Valid)
	assert.True(t, product.SalePrice.Decimal.Equal(cached.SalePrice.Decimal))

	require.NoError(t, c.Invalidate(ctx, 12, 99))
	_, ok, err = c.Get(ctx, 12)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisProductCacheCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("shop:product:5", "not-json"))

	_, _, err := c.Get(context.Background(), 5)
	assert.Error(t, err)
}

func TestNoopCache(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, &model.Product{}))
	_, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.Invalidate(ctx, 1))
}
