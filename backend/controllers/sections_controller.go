package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/utils"
)

type SectionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewSectionsController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *SectionsController {
	return &SectionsController{DB: db, Cfg: cfg, Log: log}
}

// GetSections returns the course's sections in the course's display order.
func (sc *SectionsController) GetSections(c *fiber.Ctx) error {
	course, err := findCourse(sc.DB, c.Params("courseId"))
	if err != nil {
		return dbError(c, err, "Course not found")
	}

	var sections []models.Section
	if err := sc.DB.Where("course_id = ?", course.ID).Find(&sections).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.OK(c, models.OrderByIDs(course.Sections, sections))
}

// CreateSection godoc
// @Summary Add section
// @Description Creates a section and appends it to the course's section list
// @Tags sections
// @Accept json
// @Produce json
// @Param courseId path string true "Course _id or courseId"
// @Param input body models.SectionData true "Section data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{courseId}/sections [post]
func (sc *SectionsController) CreateSection(c *fiber.Ctx) error {
	var input models.SectionData
	if ok, err := bind(c, &input); !ok {
		return err
	}

	var section models.Section
	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		course, err := findCourse(tx, c.Params("courseId"))
		if err != nil {
			return err
		}
		if err := ensureOrderFree(tx, &models.Section{}, "course_id", course.ID, input.Order, ""); err != nil {
			return err
		}

		section = input.ToSection(course.ID)
		if err := tx.Create(&section).Error; err != nil {
			return err
		}

		course.Sections = append(course.Sections, section.ID)
		return tx.Save(&course).Error
	})
	if err != nil {
		return dbError(c, err, "Course not found")
	}

	return utils.Created(c, section)
}

func (sc *SectionsController) UpdateSection(c *fiber.Ctx) error {
	var input models.SectionUpdate
	if ok, err := bind(c, &input); !ok {
		return err
	}

	var section models.Section
	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&section, "id = ?", c.Params("sectionId")).Error; err != nil {
			return err
		}
		if input.Order != nil && *input.Order != section.Order {
			if err := ensureOrderFree(tx, &models.Section{}, "course_id", section.CourseID, *input.Order, section.ID); err != nil {
				return err
			}
		}
		section.Apply(input)
		return tx.Save(&section).Error
	})
	if err != nil {
		return dbError(c, err, "Section not found")
	}

	return utils.OK(c, section)
}

// DeleteSection removes the section, its lessons and their content items,
// and drops the id from the course. Sibling orders are left as they are.
func (sc *SectionsController) DeleteSection(c *fiber.Ctx) error {
	var section models.Section
	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&section, "id = ?", c.Params("sectionId")).Error; err != nil {
			return err
		}
		if err := deleteSectionsCascade(tx, []string{section.ID}); err != nil {
			return err
		}

		var course models.Course
		if err := tx.First(&course, "id = ?", section.CourseID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				sc.Log.Warn("deleted section had no course", "section", section.ID, "course", section.CourseID)
				return nil
			}
			return err
		}
		course.Sections = removeID(course.Sections, section.ID)
		return tx.Save(&course).Error
	})
	if err != nil {
		return dbError(c, err, "Section not found")
	}

	return utils.OK(c, models.Deleted{ID: section.ID})
}
