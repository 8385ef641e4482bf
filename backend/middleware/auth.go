package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/utils"
)

// LocalUserID is the fiber.Ctx Locals key holding the authenticated user id.
const LocalUserID = "userID"

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(LocalUserID).(string)
		if userID == "" {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.Select("id", "role").First(&user, "id = ?", userID).Error; err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if user.Role != models.RoleAdmin {
			return utils.Forbidden(c, "Forbidden - Admin access required")
		}

		return c.Next()
	}
}
