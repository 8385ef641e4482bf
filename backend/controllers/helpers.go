package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/utils"
)

var errOrderTaken = errors.New("order is already used by a sibling")

// bind parses the JSON body into input and runs its form rules.
// When ok is false the response has already been written.
func bind(c *fiber.Ctx, input interface{}) (ok bool, err error) {
	if err := c.BodyParser(input); err != nil {
		return false, utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := models.Validate(input); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return false, utils.ValidationError(c, verr.Map())
		}
		return false, utils.BadRequest(c, err.Error())
	}
	return true, nil
}

// dbError maps a gorm error to an envelope response.
func dbError(c *fiber.Ctx, err error, notFound string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.NotFound(c, notFound)
	case errors.Is(err, errOrderTaken):
		return utils.Conflict(c, err.Error())
	default:
		return utils.InternalServerError(c, "Could not query database")
	}
}

// findCourse accepts either the storage id or the courseId slug.
func findCourse(db *gorm.DB, key string) (models.Course, error) {
	var course models.Course
	err := db.Where("id = ? OR course_id = ?", key, key).First(&course).Error
	return course, err
}

func uniqueCourseSlug(db *gorm.DB, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "course"
	}
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := db.Model(&models.Course{}).Where("course_id = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// ensureOrderFree fails with errOrderTaken when a sibling under the same
// parent already uses order. excludeID skips the node being updated.
func ensureOrderFree(tx *gorm.DB, model interface{}, parentColumn, parentID string, order int, excludeID string) error {
	var count int64
	q := tx.Model(model).Where(parentColumn+" = ? AND sort_order = ?", parentID, order)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errOrderTaken
	}
	return nil
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// splitIDs parses a comma-joined id list from a query parameter.
func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// deleteLessonsCascade removes lessons and every content item under them.
func deleteLessonsCascade(tx *gorm.DB, lessonIDs []string) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&models.ContentItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", lessonIDs).Delete(&models.Lesson{}).Error
}

// deleteSectionsCascade removes sections with their lessons and content items.
func deleteSectionsCascade(tx *gorm.DB, sectionIDs []string) error {
	if len(sectionIDs) == 0 {
		return nil
	}
	var lessonIDs []string
	if err := tx.Model(&models.Lesson{}).Where("section_id IN ?", sectionIDs).Pluck("id", &lessonIDs).Error; err != nil {
		return err
	}
	if err := deleteLessonsCascade(tx, lessonIDs); err != nil {
		return err
	}
	return tx.Where("id IN ?", sectionIDs).Delete(&models.Section{}).Error
}

var (
	errCourseFull    = errors.New("course is full")
	errNotEnrollable = errors.New("course is not open for enrollment")
)
