package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/controllers"
	"github.com/philosofium/coursecontent/backend/middleware"
	"github.com/philosofium/coursecontent/backend/utils"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, log *utils.Logger) {
	api := app.Group("/api", middleware.CSRFMiddleware(cfg))

	// Auth routes
	authController := controllers.NewAuthController(db, cfg, log)
	api.Get("/csrf-token", authController.CSRFToken)
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db)
	admin := []fiber.Handler{authMiddleware, adminMiddleware}

	// User routes
	userController := controllers.NewUserController(db, cfg)
	api.Get("/users/profile", authMiddleware, userController.GetProfile)
	api.Get("/users/instructors", userController.GetInstructors)
	api.Get("/users", append(admin, userController.GetUsers)...)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg, log)
	api.Get("/courses", coursesController.ListCourses)
	api.Post("/courses", append(admin, coursesController.CreateCourse)...)
	api.Get("/courses/:courseId", coursesController.GetCourse)
	api.Put("/courses/:courseId", append(admin, coursesController.UpdateCourse)...)
	api.Delete("/courses/:courseId", append(admin, coursesController.DeleteCourse)...)
	api.Get("/courses/:courseId/content", coursesController.GetCourseContent)
	api.Post("/courses/:courseId/enroll", authMiddleware, coursesController.Enroll)

	// Sections routes
	sectionsController := controllers.NewSectionsController(db, cfg, log)
	api.Get("/courses/:courseId/sections", sectionsController.GetSections)
	api.Post("/courses/:courseId/sections", append(admin, sectionsController.CreateSection)...)
	api.Put("/sections/:sectionId", append(admin, sectionsController.UpdateSection)...)
	api.Delete("/sections/:sectionId", append(admin, sectionsController.DeleteSection)...)

	// Lessons routes
	lessonsController := controllers.NewLessonsController(db, cfg, log)
	api.Get("/lessons", lessonsController.GetLessons)
	api.Get("/sections/:sectionId/lessons", lessonsController.GetSectionLessons)
	api.Post("/sections/:sectionId/lessons", append(admin, lessonsController.CreateLesson)...)
	api.Put("/lessons/:lessonId", append(admin, lessonsController.UpdateLesson)...)
	api.Delete("/lessons/:lessonId", append(admin, lessonsController.DeleteLesson)...)

	// Content routes
	contentController := controllers.NewContentController(db, cfg, log)
	api.Get("/content", contentController.GetContentItems)
	api.Get("/lessons/:lessonId/content", contentController.GetLessonContent)
	api.Post("/lessons/:lessonId/content", append(admin, contentController.CreateContentItem)...)
	api.Put("/content/:contentId", append(admin, contentController.UpdateContentItem)...)
	api.Delete("/content/:contentId", append(admin, contentController.DeleteContentItem)...)
}
