package service

import (
	"context"
	"testing"

	"go-cart-catalog/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardReflectsCartActivity(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	lamp := testutil.SeedProduct(t, f.db, "Desk Lamp", "25", 12)

	_, err := f.carts.AddProductToCart(ctx, 0, lamp.ID, 4)
	require.NoError(t, err)

	stats, err := f.dashboard.GetCatalogStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.LowStockCount)
	assert.True(t, decimal.NewFromInt(200).Equal(stats.TotalValuation), "got %s", stats.TotalValuation)

	movement, err := f.dashboard.GetStockMovement(ctx, 0)
	require.NoError(t, err)
	require.Len(t, movement, 1)
	assert.Equal(t, 4, movement[0].Outbound)
	assert.Zero(t, movement[0].Inbound)
}
