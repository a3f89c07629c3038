package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-cart-catalog/internal/cache"
	"go-cart-catalog/internal/graph"
	"go-cart-catalog/internal/handler"
	"go-cart-catalog/internal/metrics"
	"go-cart-catalog/internal/middleware"
	"go-cart-catalog/internal/model"
	"go-cart-catalog/internal/repository"
	"go-cart-catalog/internal/service"
	"go-cart-catalog/internal/ws"
	"go-cart-catalog/pkg/config"
	"go-cart-catalog/pkg/database"
	"go-cart-catalog/pkg/logger"
	"go-cart-catalog/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "cart-catalog-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "server exited with error", err)
		os.Exit(1)
	}
	logg.Info(ctx, "server exited")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	// 2. Setup Database
	db, err := database.Connect(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// Auto Migrate (production deployments should run a dedicated migration step)
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// 3. Optional product cache
	productCache := cache.NewNoop()
	if cfg.Redis.Enabled() {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()
		productCache = cache.NewRedisProductCache(client, cfg.Redis.CacheTTL)
		logg.Info(ctx, "product cache enabled")
	}

	images, err := storage.NewLocal(cfg.Upload.Dir, int64(cfg.Upload.MaxMB)<<20)
	if err != nil {
		return err
	}

	// 4. Setup WebSocket Hub
	hubCtx, cancelHub := context.WithCancel(ctx)
	defer cancelHub()
	wsHub := ws.NewHub(logg)
	go wsHub.Run(hubCtx)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetrics(registry)

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	cartRepo := repository.NewCartRepo(db)
	cartProductRepo := repository.NewCartProductRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)

	lineItemService := service.NewCartProductService(cartProductRepo)
	productService := service.NewProductService(service.ProductServiceParams{
		DB:        db,
		Products:  productRepo,
		Movements: movementRepo,
		LineItems: lineItemService,
		Cache:     productCache,
		Events:    wsHub,
		Metrics:   cartMetrics,
		Logger:    logg,
	})
	cartService := service.NewCartService(service.CartServiceParams{
		DB:        db,
		Carts:     cartRepo,
		Movements: movementRepo,
		Products:  productService,
		LineItems: lineItemService,
		Cache:     productCache,
		Events:    wsHub,
		Metrics:   cartMetrics,
		Logger:    logg,
	})
	dashService := service.NewDashboardService(movementRepo)

	schema, err := graph.NewSchema(graph.NewResolver(productService, cartService, lineItemService))
	if err != nil {
		return fmt.Errorf("graphql schema: %w", err)
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Cart Catalog API v1.0",
		BodyLimit: (cfg.Upload.MaxMB + 1) << 20,
	})

	// Middleware
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS
	app.Use(middleware.RequestID(logg))
	app.Use(middleware.Logging(logg))

	// 7. Routes
	handler.RegisterRoutes(app, handler.Handlers{
		Products:  handler.NewProductHandler(productService, images, logg),
		Carts:     handler.NewCartHandler(cartService),
		Dashboard: handler.NewDashboardHandler(dashService),
	})
	app.Post("/graphql", graph.Handler(schema))
	app.Static(strings.TrimSuffix(storage.PublicPrefix, "/"), images.Dir())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := sqlDB.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// WebSocket Route
	app.Use("/ws", ws.Upgrade)
	app.Get("/ws", wsHub.Handler())

	// 8. Graceful Shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "shutting down server")
	cancelHub()
	return app.ShutdownWithTimeout(10 * time.Second)
}
