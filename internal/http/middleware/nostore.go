package middleware

import "github.com/gofiber/fiber/v2"

// NoStore marks responses as non-cacheable. Generated documents carry personal data.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	}
}
