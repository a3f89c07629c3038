package handler

import "github.com/gofiber/fiber/v2"

type Handlers struct {
	Products  *ProductHandler
	Carts     *CartHandler
	Dashboard *DashboardHandler
}

// RegisterRoutes mounts the v1 REST surface on router.
func RegisterRoutes(router fiber.Router, h Handlers) {
	v1 := router.Group("/v1")

	products := v1.Group("/products")
	products.Get("/", h.Products.GetProducts)
	products.Post("/add", h.Products.CreateProduct)
	products.Put("/update/:id", h.Products.UpdateProduct)
	products.Get("/:id", h.Products.GetProduct)
	products.Delete("/:id", h.Products.DeleteProduct)
	products.Post("/:id/restock", h.Products.Restock)

	carts := v1.Group("/carts")
	carts.Post("/", h.Carts.CreateCart)
	carts.Get("/", h.Carts.GetCarts)
	carts.Get("/:id", h.Carts.GetCart)
	carts.Post("/:id/items", h.Carts.AddItem)
	carts.Delete("/:id/items/:itemId", h.Carts.RemoveItem)

	v1.Get("/dashboard/stats", h.Dashboard.GetCatalogStats)
	v1.Get("/dashboard/stock-movement", h.Dashboard.GetStockMovement)
}
