package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const ReqIDKey = "reqID"

// RequestID propagates an inbound X-Request-ID or mints one. The id is
// echoed on the response and on the request headers so downstream
// handlers can pick it up without importing this package.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Request().Header.Set("X-Request-ID", rid)
		c.Set("X-Request-ID", rid)
		c.Locals(ReqIDKey, rid)
		return c.Next()
	}
}
