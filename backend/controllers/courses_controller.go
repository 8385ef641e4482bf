package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/middleware"
	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/utils"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewCoursesController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Log: log}
}

// ListCourses godoc
// @Summary List courses
// @Description Returns the catalog, optionally filtered by status and category
// @Tags courses
// @Produce json
// @Param status query string false "Lifecycle status"
// @Param category query string false "Category"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.Course{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category LIKE ?", "%"+category+"%")
	}

	courses := []models.Course{}
	if err := query.Order("created_at").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.OK(c, courses)
}

func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	course, err := findCourse(cc.DB, c.Params("courseId"))
	if err != nil {
		return dbError(c, err, "Course not found")
	}
	return utils.OK(c, course)
}

// GetCourseContent godoc
// @Summary Course content
// @Description Returns the course with its sections resolved. Lessons inside sections,
// @Description instructors and users stay as ids.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course _id or courseId"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{courseId}/content [get]
func (cc *CoursesController) GetCourseContent(c *fiber.Ctx) error {
	course, err := findCourse(cc.DB, c.Params("courseId"))
	if err != nil {
		return dbError(c, err, "Course not found")
	}

	var sections []models.Section
	if err := cc.DB.Where("course_id = ?", course.ID).Find(&sections).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	populated := models.Unpopulated(course)
	var misses int
	populated.Sections, misses = models.Resolve(populated.Sections, models.IndexByID(sections))
	if misses > 0 {
		cc.Log.Warn("course references missing sections", "course", course.ID, "missing", misses)
	}

	return utils.OK(c, populated)
}

// CreateCourse godoc
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param input body models.CourseData true "Course data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input models.CourseData
	if ok, err := bind(c, &input); !ok {
		return err
	}

	course := input.ToCourse()
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		courseID, err := uniqueCourseSlug(tx, input.Title)
		if err != nil {
			return err
		}
		course.CourseID = courseID
		return tx.Create(&course).Error
	})
	if err != nil {
		cc.Log.Error("create course failed", "error", err)
		return utils.InternalServerError(c, "Could not create course")
	}

	return utils.Created(c, course)
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	var input models.CourseUpdate
	if ok, err := bind(c, &input); !ok {
		return err
	}

	course, err := findCourse(cc.DB, c.Params("courseId"))
	if err != nil {
		return dbError(c, err, "Course not found")
	}

	course.Apply(input)
	if course.MaxParticipants > 0 && course.MaxParticipants < course.MinParticipants {
		return utils.ValidationError(c, map[string]string{
			"maxParticipants": "maxParticipants must be greater than or equal to minParticipants",
		})
	}

	if err := cc.DB.Save(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}
	return utils.OK(c, course)
}

// DeleteCourse removes the course and its whole content tree.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	course, err := findCourse(cc.DB, c.Params("courseId"))
	if err != nil {
		return dbError(c, err, "Course not found")
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		var sectionIDs []string
		if err := tx.Model(&models.Section{}).Where("course_id = ?", course.ID).Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		if err := deleteSectionsCascade(tx, sectionIDs); err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
	if err != nil {
		cc.Log.Error("delete course failed", "course", course.ID, "error", err)
		return utils.InternalServerError(c, "Could not delete course")
	}

	return utils.OK(c, models.Deleted{ID: course.ID})
}

// Enroll adds the authenticated user to the course's users.
func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)

	var course models.Course
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = findCourse(tx, c.Params("courseId"))
		if err != nil {
			return err
		}
		if containsID(course.Users, userID) {
			return nil
		}
		if course.Status != models.StatusActive {
			return errNotEnrollable
		}
		if course.IsFull() {
			return errCourseFull
		}
		course.Users = append(course.Users, userID)
		if course.IsFull() {
			course.Status = models.StatusFull
		}
		return tx.Save(&course).Error
	})

	switch err {
	case nil:
		return utils.OK(c, course)
	case errNotEnrollable, errCourseFull:
		return utils.Conflict(c, err.Error())
	default:
		return dbError(c, err, "Course not found")
	}
}
