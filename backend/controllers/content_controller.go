package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/utils"
)

type ContentController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *utils.Logger
}

func NewContentController(db *gorm.DB, cfg *config.Config, log *utils.Logger) *ContentController {
	return &ContentController{DB: db, Cfg: cfg, Log: log}
}

// GetContentItems serves the batch fetch GET /content?ids=a,b, in ids order.
func (cc *ContentController) GetContentItems(c *fiber.Ctx) error {
	ids := splitIDs(c.Query("ids"))
	if len(ids) == 0 {
		return utils.OK(c, []models.ContentItem{})
	}

	var items []models.ContentItem
	if err := cc.DB.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.OK(c, models.OrderByIDs(ids, items))
}

func (cc *ContentController) GetLessonContent(c *fiber.Ctx) error {
	var lesson models.Lesson
	if err := cc.DB.First(&lesson, "id = ?", c.Params("lessonId")).Error; err != nil {
		return dbError(c, err, "Lesson not found")
	}

	var items []models.ContentItem
	if err := cc.DB.Where("lesson_id = ?", lesson.ID).Find(&items).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.OK(c, models.OrderByIDs(lesson.ContentItems, items))
}

func (cc *ContentController) CreateContentItem(c *fiber.Ctx) error {
	var input models.ContentItemData
	if ok, err := bind(c, &input); !ok {
		return err
	}

	var item models.ContentItem
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.First(&lesson, "id = ?", c.Params("lessonId")).Error; err != nil {
			return err
		}

		item = input.ToContentItem(lesson.ID)
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		lesson.ContentItems = append(lesson.ContentItems, item.ID)
		return tx.Save(&lesson).Error
	})
	if err != nil {
		return dbError(c, err, "Lesson not found")
	}

	return utils.Created(c, item)
}

func (cc *ContentController) UpdateContentItem(c *fiber.Ctx) error {
	var input models.ContentItemUpdate
	if ok, err := bind(c, &input); !ok {
		return err
	}

	var item models.ContentItem
	if err := cc.DB.First(&item, "id = ?", c.Params("contentId")).Error; err != nil {
		return dbError(c, err, "Content item not found")
	}

	item.Apply(input)
	if err := cc.DB.Save(&item).Error; err != nil {
		return utils.InternalServerError(c, "Could not update content item")
	}
	return utils.OK(c, item)
}

func (cc *ContentController) DeleteContentItem(c *fiber.Ctx) error {
	var item models.ContentItem
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", c.Params("contentId")).Error; err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}

		var lesson models.Lesson
		if err := tx.First(&lesson, "id = ?", item.LessonID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				cc.Log.Warn("deleted content item had no lesson", "content", item.ID, "lesson", item.LessonID)
				return nil
			}
			return err
		}
		lesson.ContentItems = removeID(lesson.ContentItems, item.ID)
		return tx.Save(&lesson).Error
	})
	if err != nil {
		return dbError(c, err, "Content item not found")
	}

	return utils.OK(c, models.Deleted{ID: item.ID})
}
