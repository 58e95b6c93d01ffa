package middleware

import "github.com/gofiber/fiber/v2"

// CORS applies the permissive cross-origin policy for the /api group and
// short-circuits preflight requests. Preflights answer 200, not 204, because
// some clients treat anything other than 200 as a failed preflight.
func CORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusOK)
		}
		return c.Next()
	}
}
