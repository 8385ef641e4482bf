package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/utils"
)

const HeaderCSRFToken = "X-CSRF-Token"

// CSRFMiddleware rejects state-changing requests without a valid token
// from GET /api/csrf-token. Safe methods pass through.
func CSRFMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		if err := utils.ValidateCSRFToken(c.Get(HeaderCSRFToken), cfg); err != nil {
			return utils.Error(c, fiber.StatusForbidden, err)
		}
		return c.Next()
	}
}
