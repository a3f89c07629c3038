package handler

import (
	"go-cart-catalog/internal/service"
	"go-cart-catalog/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	service service.CartService
}

func NewCartHandler(s service.CartService) *CartHandler {
	return &CartHandler{service: s}
}

func (h *CartHandler) CreateCart(c *fiber.Ctx) error {
	cart, err := h.service.CreateCart(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

func (h *CartHandler) GetCarts(c *fiber.Ctx) error {
	page, err := h.service.ListCarts(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("pageSize", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid cart ID")
	}
	cart, err := h.service.GetCart(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

type addItemRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gte=1"`
}

// AddItem handles POST /v1/carts/:id/items. An unknown cart id is replaced by
// a fresh cart, so clients must read the id from the response.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		return badRequest(c, "Invalid cart ID")
	}
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return badRequest(c, validator.Message(errs))
	}

	cart, err := h.service.AddProductToCart(c.UserContext(), uint(id), req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	cartID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid cart ID")
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return badRequest(c, "Invalid item ID")
	}
	cart, err := h.service.RemoveProductFromCart(c.UserContext(), cartID, itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}
