package service

import (
	"context"
	"sync"
	"testing"

	"go-cart-catalog/internal/cache"
	"go-cart-catalog/internal/metrics"
	"go-cart-catalog/internal/repository"
	"go-cart-catalog/internal/testutil"
	"go-cart-catalog/internal/ws"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	products  ProductService
	lineItems CartProductService
	carts     CartService
	dashboard DashboardService
	events    *recordingPublisher
	registry  *prometheus.Registry
}

func newFixture(t *testing.T, productCache cache.ProductCache) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	registry := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(registry)
	events := &recordingPublisher{}
	movements := repository.NewStockMovementRepo(db)

	lineItems := NewCartProductService(repository.NewCartProductRepo(db))
	products := NewProductService(ProductServiceParams{
		DB:        db,
		Products:  repository.NewProductRepo(db),
		Movements: movements,
		LineItems: lineItems,
		Cache:     productCache,
		Events:    events,
		Metrics:   cartMetrics,
	})
	carts := NewCartService(CartServiceParams{
		DB:        db,
		Carts:     repository.NewCartRepo(db),
		Movements: movements,
		Products:  products,
		LineItems: lineItems,
		Cache:     productCache,
		Events:    events,
		Metrics:   cartMetrics,
	})
	return &fixture{
		db:        db,
		products:  products,
		lineItems: lineItems,
		carts:     carts,
		dashboard: NewDashboardService(movements),
		events:    events,
		registry:  registry,
	}
}
