package middleware

import (
	"github.com/gofiber/fiber/v2"

	"review-engagement-service/internal/infra/kafka"
)

// Correlation copies the request id set by the requestid middleware into
// the user context, so published events carry it as their correlation id.
// Register it after requestid.New().
func Correlation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := requestID(c); id != "" {
			c.SetUserContext(kafka.WithCorrelationID(c.UserContext(), id))
		}

		return c.Next()
	}
}

// requestID returns the id assigned by the requestid middleware.
func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}

	return string(c.Response().Header.Peek(fiber.HeaderXRequestID))
}
