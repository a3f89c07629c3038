package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"go-cart-catalog/internal/service"
	"go-cart-catalog/pkg/apperror"
	"go-cart-catalog/pkg/logger"
	"go-cart-catalog/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

// ImageStore persists uploaded product images.
type ImageStore interface {
	SaveImage(fh *multipart.FileHeader) (string, error)
	Remove(publicURL string) error
}

type ProductHandler struct {
	service service.ProductService
	images  ImageStore
	log     *logger.Logger
}

func NewProductHandler(s service.ProductService, images ImageStore, log *logger.Logger) *ProductHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductHandler{service: s, images: images, log: log}
}

// CreateProduct handles POST /v1/products/add (multipart: file, name, price,
// quantity, sale_price).
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	input, err := parseProductForm(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	imageURL, err := h.saveImage(file)
	if err != nil {
		return badRequest(c, err.Error())
	}

	product, err := h.service.CreateProduct(c.UserContext(), input, imageURL)
	if err != nil {
		h.discardImage(c, imageURL)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct handles PUT /v1/products/update/:id. The file part is
// optional; without it the current image is kept, with it the old file is
// removed once the update commits.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	input, err := parseProductForm(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	imageURL := ""
	file, err := c.FormFile("file")
	switch {
	case err == nil:
		if imageURL, err = h.saveImage(file); err != nil {
			return badRequest(c, err.Error())
		}
	case !errors.Is(err, fasthttp.ErrMissingFile):
		return badRequest(c, "invalid multipart form")
	}

	product, replaced, err := h.service.UpdateProduct(c.UserContext(), id, input, imageURL)
	if err != nil {
		h.discardImage(c, imageURL)
		return respondError(c, err)
	}
	h.discardImage(c, replaced)
	return c.JSON(product)
}

// GetProducts handles GET /v1/products?page&pageSize&sort&band&on_sale
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	filter := service.ProductFilter{
		Sort:   c.Query("sort"),
		Band:   c.Query("band"),
		OnSale: c.QueryBool("on_sale", false),
	}
	page, err := h.service.ListProducts(c.UserContext(), filter, c.QueryInt("page", 1), c.QueryInt("pageSize", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.service.FindProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	page, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

func (h *ProductHandler) Restock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var req restockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	product, err := h.service.Restock(c.UserContext(), id, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) saveImage(file *multipart.FileHeader) (string, error) {
	url, err := h.images.SaveImage(file)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrTooLarge):
		return "", err
	case err != nil:
		return "", apperror.Wrap(err, "failed to store image")
	}
	return url, nil
}

func (h *ProductHandler) discardImage(c *fiber.Ctx, url string) {
	if url == "" {
		return
	}
	if err := h.images.Remove(url); err != nil {
		h.log.Error(c.UserContext(), "removing orphaned upload", err)
	}
}

func parseProductForm(c *fiber.Ctx) (service.ProductInput, error) {
	var input service.ProductInput
	input.Name = strings.TrimSpace(c.FormValue("name"))

	price, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("price")))
	if err != nil {
		return input, errors.New("price is required and must be a number")
	}
	input.Price = price

	quantity, err := strconv.Atoi(strings.TrimSpace(c.FormValue("quantity")))
	if err != nil {
		return input, errors.New("quantity is required and must be an integer")
	}
	input.Quantity = quantity

	if raw := strings.TrimSpace(c.FormValue("sale_price")); raw != "" {
		sale, err := decimal.NewFromString(raw)
		if err != nil {
			return input, fmt.Errorf("sale_price must be a number, got %q", raw)
		}
		input.SalePrice = decimal.NullDecimal{Decimal: sale, Valid: true}
	}
	return input, nil
}
