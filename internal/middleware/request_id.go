package middleware

import (
	"go-cart-catalog/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID echoes or mints X-Request-Id and carries it on the user context
// so every log line of the request is tagged with it.
func RequestID(logg *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDHeader, reqID)

		if logg != nil {
			c.SetUserContext(logg.WithRequestID(c.UserContext(), reqID))
		}
		return c.Next()
	}
}
