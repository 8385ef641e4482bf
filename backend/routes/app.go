package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/middleware"
	"github.com/philosofium/coursecontent/backend/utils"
)

// NewApp builds the API server with its middleware chain and route table.
func NewApp(db *gorm.DB, cfg *config.Config, log *utils.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "philosofium",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: cfg.QuietStartup,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.HeaderCSRFToken,
	}))
	app.Use(middleware.LoggingMiddleware(log))

	SetupRoutes(app, db, cfg, log)
	return app
}

// errorHandler keeps unmatched routes and recovered panics inside the envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	return utils.Error(c, status, err)
}
