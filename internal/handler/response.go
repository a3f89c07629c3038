package handler

import (
	"go-cart-catalog/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// respondError writes every failure as a 400 carrying the message and code.
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
		"code":  apperror.CodeOf(err),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"code":  apperror.CodeValidation,
	})
}

// paramID reads a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
