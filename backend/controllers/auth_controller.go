package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/utils"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewAuthController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Log: log}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.RegisterInput true "User registration data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input models.RegisterInput
	if ok, err := bind(c, &input); !ok {
		return err
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	var taken int64
	err = ac.DB.Model(&models.User{}).Where("username = ? OR email = ?", user.Username, user.Email).Count(&taken).Error
	if err != nil {
		ac.Log.Error("check existing user failed", "error", err)
		return utils.InternalServerError(c, "Could not create user")
	}
	if taken > 0 {
		return utils.Conflict(c, "Username or email already taken")
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		ac.Log.Error("create user failed", "error", err)
		return utils.InternalServerError(c, "Could not create user")
	}

	// Generate JWT token
	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return utils.Created(c, models.Session{Token: token, User: user})
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginInput true "Login credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input models.LoginInput
	if ok, err := bind(c, &input); !ok {
		return err
	}

	// Find user
	var user models.User
	if err := ac.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	// Check password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return utils.OK(c, models.Session{Token: token, User: user})
}

// CSRFToken issues a token to send back in the X-CSRF-Token header.
func (ac *AuthController) CSRFToken(c *fiber.Ctx) error {
	token, expiresAt, err := utils.GenerateCSRFToken(ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate csrf token")
	}
	return utils.OK(c, models.CSRFToken{Token: token, ExpiresAt: expiresAt})
}
