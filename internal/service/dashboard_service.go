package service

import (
	"context"
	"time"

	"go-cart-catalog/internal/repository"
	"go-cart-catalog/pkg/apperror"
)

// DefaultMovementDays is the chart window when none is requested.
const DefaultMovementDays = 7

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetCatalogStats(ctx context.Context) (*repository.CatalogStats, error)
}

type dashboardService struct {
	movements repository.StockMovementRepository
}

func NewDashboardService(movements repository.StockMovementRepository) DashboardService {
	return &dashboardService{movements: movements}
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = DefaultMovementDays
	}
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	data, err := s.movements.GetStockMovement(ctx, startDate, endDate)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to fetch stock movement")
	}
	return data, nil
}

func (s *dashboardService) GetCatalogStats(ctx context.Context) (*repository.CatalogStats, error) {
	stats, err := s.movements.GetCatalogStats(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to fetch dashboard stats")
	}
	return stats, nil
}
