package repository

import (
	"context"
	"testing"

	"go-cart-catalog/internal/model"
	"go-cart-catalog/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreateStartsAtVersionOne(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()

	product := &model.Product{
		Name:      "Desk Lamp",
		Price:     decimal.RequireFromString("25.50"),
		SalePrice: testutil.Sale("19.99"),
		Quantity:  5,
		ImageURL:  "/images/lamp.png",
	}
	require.NoError(t, repo.Create(ctx, product))
	assert.NotZero(t, product.ID)
	assert.Equal(t, 1, product.Version)

	got, err := repo.FindByName(ctx, "Desk Lamp")
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("25.5")))
	assert.True(t, got.SalePrice.Valid)
	assert.True(t, got.SalePrice.Decimal.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, "/images/lamp.png", got.ImageURL)
}

func TestProductUpdateRejectsStaleVersion(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	seeded := testutil.SeedProduct(t, db, "Mug", "8", 10)

	first, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateQuantity(ctx, first, 7))
	assert.Equal(t, 2, first.Version)
	assert.Equal(t, 7, first.Quantity)

	err = repo.UpdateQuantity(ctx, second, 3)
	assert.ErrorIs(t, err, ErrVersionConflict)

	second.Name = "Big Mug"
	assert.ErrorIs(t, repo.Update(ctx, second), ErrVersionConflict)

	stored, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Quantity)
	assert.Equal(t, "Mug", stored.Name)
	assert.Equal(t, 2, stored.Version)
}

func TestProductUpdateWritesAllColumns(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	product := testutil.SeedProduct(t, db, "Mug", "8", 10)

	product.Name = "Tea Mug"
	product.Price = decimal.RequireFromString("9.50")
	product.SalePrice = testutil.Sale("7")
	product.ImageURL = "/images/mug.png"
	require.NoError(t, repo.Update(ctx, product))

	stored, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tea Mug", stored.Name)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("9.5")))
	assert.True(t, stored.SalePrice.Decimal.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, "/images/mug.png", stored.ImageURL)
	assert.Equal(t, 2, stored.Version)
}

func TestProductDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	product := testutil.SeedProduct(t, db, "Mug", "8", 10)

	require.NoError(t, repo.Delete(ctx, product.ID))
	assert.ErrorIs(t, repo.Delete(ctx, product.ID), ErrNotFound)

	_, err := repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductNameIsUnique(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	testutil.SeedProduct(t, db, "Mug", "8", 10)
	lamp := testutil.SeedProduct(t, db, "Desk Lamp", "25", 5)

	err := repo.Create(ctx, &model.Product{Name: "Mug", Price: decimal.NewFromInt(9), Quantity: 1})
	assert.ErrorIs(t, err, ErrDuplicateName)

	lamp.Name = "Mug"
	assert.ErrorIs(t, repo.Update(ctx, lamp), ErrDuplicateName)

	var count int64
	require.NoError(t, db.Model(&model.Product{}).Where("name = ?", "Mug").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
