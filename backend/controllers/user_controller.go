package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/middleware"
	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/utils"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns authenticated user's profile with the courses they are enrolled in
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)

	var user models.User
	if err := uc.DB.First(&user, "id = ?", userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	// users is a JSON list, filter in memory
	var courses []models.Course
	if err := uc.DB.Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	enrolled := []string{}
	for _, course := range courses {
		if containsID(course.Users, userID) {
			enrolled = append(enrolled, course.CourseID)
		}
	}

	return utils.OK(c, fiber.Map{
		"user":    user,
		"courses": enrolled,
	})
}

// GetInstructors lists users that can be assigned to teach a course.
func (uc *UserController) GetInstructors(c *fiber.Ctx) error {
	return uc.listByRole(c, models.RoleInstructor)
}

// GetUsers lists learners.
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	return uc.listByRole(c, models.RoleUser)
}

func (uc *UserController) listByRole(c *fiber.Ctx, role models.Role) error {
	users := []models.User{}
	if err := uc.DB.Where("role = ?", role).Order("username").Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.OK(c, users)
}
