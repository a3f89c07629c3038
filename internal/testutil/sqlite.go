// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"fmt"
	"testing"

	"go-cart-catalog/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database private to t. A single
// connection keeps shared-cache table locks out of the way.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// SeedProduct inserts a product priced at price with quantity units.
func SeedProduct(t testing.TB, db *gorm.DB, name, price string, quantity int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func Sale(price string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(price), Valid: true}
}
