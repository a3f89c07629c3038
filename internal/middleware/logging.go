package middleware

import (
	"time"

	"go-cart-catalog/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

func Logging(logg *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if logg == nil {
			return c.Next()
		}
		ctx := logg.WithFields(c.UserContext(), map[string]any{
			"method": c.Method(),
			"path":   c.Path(),
		})
		c.SetUserContext(ctx)
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ctx = logg.WithFields(ctx, map[string]any{
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if status >= fiber.StatusInternalServerError {
			logg.Error(ctx, "request.complete", err)
		} else {
			logg.Info(ctx, "request.complete")
		}
		return err
	}
}
