package repository

import (
	"context"
	"time"

	"go-cart-catalog/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LowStockThreshold marks a product as running low on the dashboard.
const LowStockThreshold = 10

type StockMovementRepository interface {
	WithTx(tx *gorm.DB) StockMovementRepository
	Create(ctx context.Context, movement *model.StockMovement) error
	FindByProduct(ctx context.Context, productID uint) ([]model.StockMovement, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
	GetCatalogStats(ctx context.Context) (*CatalogStats, error)
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// CatalogStats untuk overview stats
type CatalogStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) WithTx(tx *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{tx}
}

func (r *stockMovementRepo) Create(ctx context.Context, movement *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *stockMovementRepo) FindByProduct(ctx context.Context, productID uint) ([]model.StockMovement, error) {
	return FindAll[model.StockMovement](ctx, r.db, Query{
		Where: []Condition{Where("product_id = ?", productID)},
		Order: []string{"id ASC"},
	})
}

func (r *stockMovementRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	results := make([]StockMovementData, 0)

	// Aggregate movements per day
	rows, err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *stockMovementRepo) GetCatalogStats(ctx context.Context) (*CatalogStats, error) {
	var stats CatalogStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("quantity < ?", LowStockThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	// SUM(quantity * price); scanned through database/sql so decimal's Scanner is used
	row := db.Model(&model.Product{}).Select("COALESCE(SUM(quantity * price), 0)").Row()
	if err := row.Scan(&stats.TotalValuation); err != nil {
		return nil, err
	}
	return &stats, nil
}
