package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/utils"
)

type LessonsController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewLessonsController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *LessonsController {
	return &LessonsController{DB: db, Cfg: cfg, Log: log}
}

// lessonsOf returns the lessons of the given sections, section by section,
// each in its section's display order.
func (lc *LessonsController) lessonsOf(sectionIDs []string) ([]models.Lesson, error) {
	if len(sectionIDs) == 0 {
		return []models.Lesson{}, nil
	}

	var sections []models.Section
	if err := lc.DB.Where("id IN ?", sectionIDs).Find(&sections).Error; err != nil {
		return nil, err
	}
	var lessons []models.Lesson
	if err := lc.DB.Where("section_id IN ?", sectionIDs).Find(&lessons).Error; err != nil {
		return nil, err
	}

	var order []string
	for _, section := range models.OrderByIDs(sectionIDs, sections) {
		order = append(order, section.Lessons...)
	}
	return models.OrderByIDs(order, lessons), nil
}

// GetLessons serves the batch fetch GET /lessons?sectionIds=a,b.
func (lc *LessonsController) GetLessons(c *fiber.Ctx) error {
	lessons, err := lc.lessonsOf(splitIDs(c.Query("sectionIds")))
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.OK(c, lessons)
}

func (lc *LessonsController) GetSectionLessons(c *fiber.Ctx) error {
	var section models.Section
	if err := lc.DB.First(&section, "id = ?", c.Params("sectionId")).Error; err != nil {
		return dbError(c, err, "Section not found")
	}

	lessons, err := lc.lessonsOf([]string{section.ID})
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.OK(c, lessons)
}

func (lc *LessonsController) CreateLesson(c *fiber.Ctx) error {
	var input models.LessonData
	if ok, err := bind(c, &input); !ok {
		return err
	}

	var lesson models.Lesson
	err := lc.DB.Transaction(func(tx *gorm.DB) error {
		var section models.Section
		if err := tx.First(&section, "id = ?", c.Params("sectionId")).Error; err != nil {
			return err
		}
		if err := ensureOrderFree(tx, &models.Lesson{}, "section_id", section.ID, input.Order, ""); err != nil {
			return err
		}

		lesson = input.ToLesson(section.ID)
		if err := tx.Create(&lesson).Error; err != nil {
			return err
		}

		section.Lessons = append(section.Lessons, lesson.ID)
		return tx.Save(&section).Error
	})
	if err != nil {
		return dbError(c, err, "Section not found")
	}

	return utils.Created(c, lesson)
}

func (lc *LessonsController) UpdateLesson(c *fiber.Ctx) error {
	var input models.LessonUpdate
	if ok, err := bind(c, &input); !ok {
		return err
	}

	var lesson models.Lesson
	err := lc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&lesson, "id = ?", c.Params("lessonId")).Error; err != nil {
			return err
		}
		if input.Order != nil && *input.Order != lesson.Order {
			if err := ensureOrderFree(tx, &models.Lesson{}, "section_id", lesson.SectionID, *input.Order, lesson.ID); err != nil {
				return err
			}
		}
		lesson.Apply(input)
		return tx.Save(&lesson).Error
	})
	if err != nil {
		return dbError(c, err, "Lesson not found")
	}

	return utils.OK(c, lesson)
}

// DeleteLesson removes the lesson with its content items and drops the id
// from the parent section's lessons.
func (lc *LessonsController) DeleteLesson(c *fiber.Ctx) error {
	var lesson models.Lesson
	err := lc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&lesson, "id = ?", c.Params("lessonId")).Error; err != nil {
			return err
		}
		if err := deleteLessonsCascade(tx, []string{lesson.ID}); err != nil {
			return err
		}

		var section models.Section
		if err := tx.First(&section, "id = ?", lesson.SectionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				lc.Log.Warn("deleted lesson had no section", "lesson", lesson.ID, "section", lesson.SectionID)
				return nil
			}
			return err
		}
		section.Lessons = removeID(section.Lessons, lesson.ID)
		return tx.Save(&section).Error
	})
	if err != nil {
		return dbError(c, err, "Lesson not found")
	}

	return utils.OK(c, models.Deleted{ID: lesson.ID})
}
