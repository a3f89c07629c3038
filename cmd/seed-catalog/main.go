package main

import (
	"context"
	"log"

	"go-cart-catalog/internal/model"
	"go-cart-catalog/internal/repository"
	"go-cart-catalog/internal/service"
	"go-cart-catalog/pkg/apperror"
	"go-cart-catalog/pkg/config"
	"go-cart-catalog/pkg/database"
	"go-cart-catalog/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// demoCatalog spans every price band the listing filters know about.
var demoCatalog = []service.ProductInput{
	{Name: "Pencil Set", Price: decimal.RequireFromString("4.99"), Quantity: 120},
	{Name: "Desk Lamp", Price: decimal.RequireFromString("25.50"), SalePrice: sale("19.99"), Quantity: 40},
	{Name: "Office Chair", Price: decimal.RequireFromString("149.00"), Quantity: 15},
	{Name: "Standing Desk", Price: decimal.RequireFromString("699.00"), SalePrice: sale("599.00"), Quantity: 8},
	{Name: "Laptop Pro 14", Price: decimal.RequireFromString("1899.00"), Quantity: 5},
}

func sale(v string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(v), Valid: true}
}

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logg := logger.New(logger.Options{ServiceName: "seed-catalog", Level: logger.ParseLevel(cfg.App.LogLevel), Format: cfg.App.LogFormat})
	ctx := context.Background()

	// 2. Setup Database
	db, err := database.Connect(ctx, cfg.DB, logg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// 3. Insert products that are not there yet
	movements := repository.NewStockMovementRepo(db)
	products := service.NewProductService(service.ProductServiceParams{
		DB:        db,
		Products:  repository.NewProductRepo(db),
		Movements: movements,
		LineItems: service.NewCartProductService(repository.NewCartProductRepo(db)),
		Logger:    logg,
	})

	created := 0
	for _, input := range demoCatalog {
		_, err := products.CreateProduct(ctx, input, "")
		switch {
		case err == nil:
			created++
		case apperror.Is(err, apperror.CodeConflict):
			logg.Info(logg.WithField(ctx, "name", input.Name), "product already present")
		default:
			log.Fatalf("seeding %s: %v", input.Name, err)
		}
	}
	logg.Info(logg.WithField(ctx, "created", created), "catalog seeded")
}
