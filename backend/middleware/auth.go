package middleware

import (
	"emsadmin/backend/config"
	"emsadmin/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// AdminMiddleware gates routes on the role claim. Coordinators count as
// administrative staff.
func AdminMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := utils.ExtractRoleFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		if role != "admin" && role != "coordinator" {
			return utils.Forbidden(c, "Admin access required")
		}

		return c.Next()
	}
}
