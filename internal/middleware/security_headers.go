package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// NewSecurityHeadersMiddleware sets the response headers every JSON
// endpoint should carry.
func NewSecurityHeadersMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderXFrameOptions, "DENY")
		c.Set(fiber.HeaderReferrerPolicy, "no-referrer")
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	}
}
