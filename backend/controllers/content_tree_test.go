package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/testutil"
)

func createSection(t *testing.T, env *testutil.Env, courseKey string, data models.SectionData) models.Section {
	t.Helper()
	status, resp := testutil.Do[models.Section](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses/" + courseKey + "/sections",
		Body:   data,
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusCreated, status, resp.Failure())
	return resp.Data
}

func createLesson(t *testing.T, env *testutil.Env, sectionID string, data models.LessonData) models.Lesson {
	t.Helper()
	status, resp := testutil.Do[models.Lesson](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/sections/" + sectionID + "/lessons",
		Body:   data,
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusCreated, status, resp.Failure())
	return resp.Data
}

func createContentItem(t *testing.T, env *testutil.Env, lessonID string, data models.ContentItemData) models.ContentItem {
	t.Helper()
	status, resp := testutil.Do[models.ContentItem](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/lessons/" + lessonID + "/content",
		Body:   data,
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusCreated, status, resp.Failure())
	return resp.Data
}

func textLesson(title string, order int) models.LessonData {
	return models.LessonData{Title: title, Type: models.LessonText, Order: order, EstimatedCompletionTime: 10}
}

func TestCreateSectionAppendsToCourse(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Hebrew 101")

	intro := createSection(t, env, course.CourseID, models.SectionData{Title: "Intro", Order: 1})
	assert.Equal(t, course.ID, intro.CourseID)
	assert.Equal(t, []string{}, intro.Lessons)
	grammar := createSection(t, env, course.ID, models.SectionData{Title: "Grammar", Order: 2})

	status, resp := testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/courses/" + course.CourseID,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []string{intro.ID, grammar.ID}, resp.Data.Sections)
}

func TestCreateSectionRejectsDuplicateOrder(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Hebrew 101")
	createSection(t, env, course.ID, models.SectionData{Title: "Intro", Order: 1})

	status, resp := testutil.Do[models.Section](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses/" + course.ID + "/sections",
		Body:   models.SectionData{Title: "Also first", Order: 1},
		Token:  env.AdminToken,
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.False(t, resp.Success)

	// a different course may reuse the order
	other := env.SeedCourse(t, "Greek")
	createSection(t, env, other.ID, models.SectionData{Title: "Intro", Order: 1})
}

func TestCreateSectionValidation(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Hebrew 101")

	status, resp := testutil.Do[models.Section](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses/" + course.ID + "/sections",
		Body:   models.SectionData{Title: "", Order: 0},
		Token:  env.AdminToken,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, resp.Details, "title")
	assert.Contains(t, resp.Details, "order")

	status, _ = testutil.Do[models.Section](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses/missing/sections",
		Body:   models.SectionData{Title: "Intro", Order: 1},
		Token:  env.AdminToken,
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUpdateSection(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Hebrew 101")
	intro := createSection(t, env, course.ID, models.SectionData{Title: "Intro", Order: 1})
	createSection(t, env, course.ID, models.SectionData{Title: "Grammar", Order: 2})

	title := "Introduction"
	status, resp := testutil.Do[models.Section](t, env, testutil.Request{
		Method: fiber.MethodPut,
		Path:   "/api/sections/" + intro.ID,
		Body:   models.SectionUpdate{Title: &title},
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Introduction", resp.Data.Title)
	assert.Equal(t, 1, resp.Data.Order)

	taken := 2
	status, _ = testutil.Do[models.Section](t, env, testutil.Request{
		Method: fiber.MethodPut,
		Path:   "/api/sections/" + intro.ID,
		Body:   models.SectionUpdate{Order: &taken},
		Token:  env.AdminToken,
	})
	assert.Equal(t, fiber.StatusConflict, status)

	// keeping its own order is fine
	same := 1
	status, _ = testutil.Do[models.Section](t, env, testutil.Request{
		Method: fiber.MethodPut,
		Path:   "/api/sections/" + intro.ID,
		Body:   models.SectionUpdate{Order: &same},
		Token:  env.AdminToken,
	})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestBatchFetchKeepsParentOrder(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Hebrew 101")
	first := createSection(t, env, course.ID, models.SectionData{Title: "First", Order: 1})
	second := createSection(t, env, course.ID, models.SectionData{Title: "Second", Order: 2})

	// lesson list order follows creation, not the order field
	b := createLesson(t, env, first.ID, textLesson("B", 2))
	a := createLesson(t, env, first.ID, textLesson("A", 1))
	c := createLesson(t, env, second.ID, textLesson("C", 1))

	status, resp := testutil.Do[[]models.Lesson](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/lessons?sectionIds=" + second.ID + "," + first.ID,
	})
	require.Equal(t, fiber.StatusOK, status)
	var ids []string
	for _, l := range resp.Data {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, ids)

	x := createContentItem(t, env, a.ID, models.ContentItemData{Type: models.ContentText, Title: "X", Data: "x"})
	y := createContentItem(t, env, a.ID, models.ContentItemData{Type: models.ContentLink, Title: "Y", Data: "https://example.com"})

	status, items := testutil.Do[[]models.ContentItem](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/content?ids=" + y.ID + "," + x.ID + ",missing",
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, items.Data, 2)
	assert.Equal(t, y.ID, items.Data[0].ID)
	assert.Equal(t, x.ID, items.Data[1].ID)

	status, empty := testutil.Do[[]models.ContentItem](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/content",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.NotNil(t, empty.Data)
	assert.Empty(t, empty.Data)
}

func TestCourseContentResolvesSections(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Hebrew 101")
	rivka := env.CreateUser(t, "rivka", models.RoleInstructor)
	course.Instructors = []string{rivka.ID}
	require.NoError(t, env.DB.Save(&course).Error)
	intro := createSection(t, env, course.ID, models.SectionData{Title: "Intro", Order: 1})
	lesson := createLesson(t, env, intro.ID, textLesson("Alphabet", 1))

	status, resp := testutil.Do[models.PopulatedCourse](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/courses/" + course.CourseID + "/content",
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, resp.Data.Sections, 1)
	require.True(t, resp.Data.Sections[0].Resolved())
	section := *resp.Data.Sections[0].Value
	assert.Equal(t, "Intro", section.Title)
	// one level only: lessons stay ids
	assert.Equal(t, []string{lesson.ID}, section.Lessons)

	require.Len(t, resp.Data.Instructors, 1)
	assert.False(t, resp.Data.Instructors[0].Resolved())
	assert.Equal(t, rivka.ID, resp.Data.Instructors[0].ID)
}

func TestUpdateContentItemBumpsVersion(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Hebrew 101")
	intro := createSection(t, env, course.ID, models.SectionData{Title: "Intro", Order: 1})
	lesson := createLesson(t, env, intro.ID, textLesson("Alphabet", 1))
	item := createContentItem(t, env, lesson.ID, models.ContentItemData{Type: models.ContentVideo, Title: "Aleph", Data: "https://video/aleph"})
	assert.Equal(t, 1, item.Version)

	title := "Aleph and Bet"
	status, resp := testutil.Do[models.ContentItem](t, env, testutil.Request{
		Method: fiber.MethodPut,
		Path:   "/api/content/" + item.ID,
		Body:   models.ContentItemUpdate{Title: &title},
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Aleph and Bet", resp.Data.Title)
	assert.Equal(t, 2, resp.Data.Version)
	assert.Equal(t, "https://video/aleph", resp.Data.Data)
}

func TestUpdateContentItemClearsOptionalFields(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Hebrew 101")
	intro := createSection(t, env, course.ID, models.SectionData{Title: "Intro", Order: 1})
	lesson := createLesson(t, env, intro.ID, textLesson("Alphabet", 1))
	seconds := 45
	item := createContentItem(t, env, lesson.ID, models.ContentItemData{
		Type: models.ContentVideo, Title: "Aleph", Data: "https://video/aleph",
		Duration: &seconds, Tags: []string{"letters"},
	})

	// resubmitting the unchanged form is a no-op
	status, resp := testutil.Do[models.ContentItem](t, env, testutil.Request{
		Method: fiber.MethodPut,
		Path:   "/api/content/" + item.ID,
		Body:   item.Form().Patch(),
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusOK, status, resp.Failure())
	assert.Equal(t, 1, resp.Data.Version)

	form := item.Form()
	form.Tags = nil
	form.Duration = nil
	status, resp = testutil.Do[models.ContentItem](t, env, testutil.Request{
		Method: fiber.MethodPut,
		Path:   "/api/content/" + item.ID,
		Body:   form.Patch(),
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusOK, status, resp.Failure())
	assert.Equal(t, 2, resp.Data.Version)

	status, stored := testutil.Do[[]models.ContentItem](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/content?ids=" + item.ID,
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, stored.Data, 1)
	assert.Empty(t, stored.Data[0].Tags)
	assert.Nil(t, stored.Data[0].Duration)
}

func TestUpdateRejectsUnknownUnsetField(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Hebrew 101")
	intro := createSection(t, env, course.ID, models.SectionData{Title: "Intro", Order: 1})
	lesson := createLesson(t, env, intro.ID, textLesson("Alphabet", 1))

	status, _ := testutil.Do[models.Lesson](t, env, testutil.Request{
		Method: fiber.MethodPut,
		Path:   "/api/lessons/" + lesson.ID,
		Body:   models.LessonUpdate{Unset: []string{"title"}},
		Token:  env.AdminToken,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestDeleteSectionCascades(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Hebrew 101")
	intro := createSection(t, env, course.ID, models.SectionData{Title: "Intro", Order: 1})
	grammar := createSection(t, env, course.ID, models.SectionData{Title: "Grammar", Order: 2})
	lesson := createLesson(t, env, intro.ID, textLesson("Alphabet", 1))
	kept := createLesson(t, env, grammar.ID, textLesson("Verbs", 1))
	item := createContentItem(t, env, lesson.ID, models.ContentItemData{Type: models.ContentText, Title: "Aleph", Data: "א"})

	status, _ := testutil.Do[interface{}](t, env, testutil.Request{
		Method: fiber.MethodDelete,
		Path:   "/api/sections/" + intro.ID,
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusOK, status)

	var count int64
	env.DB.Model(&models.Lesson{}).Where("id = ?", lesson.ID).Count(&count)
	assert.Zero(t, count)
	env.DB.Model(&models.ContentItem{}).Where("id = ?", item.ID).Count(&count)
	assert.Zero(t, count)
	env.DB.Model(&models.Lesson{}).Where("id = ?", kept.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	_, resp := testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/courses/" + course.ID,
	})
	assert.Equal(t, []string{grammar.ID}, resp.Data.Sections)

	// no renumbering of siblings
	_, sections := testutil.Do[[]models.Section](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/courses/" + course.ID + "/sections",
	})
	require.Len(t, sections.Data, 1)
	assert.Equal(t, 2, sections.Data[0].Order)

	status, _ = testutil.Do[interface{}](t, env, testutil.Request{
		Method: fiber.MethodDelete,
		Path:   "/api/sections/" + intro.ID,
		Token:  env.AdminToken,
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestDeleteLessonAndContentItem(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Hebrew 101")
	intro := createSection(t, env, course.ID, models.SectionData{Title: "Intro", Order: 1})
	lesson := createLesson(t, env, intro.ID, textLesson("Alphabet", 1))
	first := createContentItem(t, env, lesson.ID, models.ContentItemData{Type: models.ContentText, Title: "Aleph", Data: "א"})
	second := createContentItem(t, env, lesson.ID, models.ContentItemData{Type: models.ContentText, Title: "Bet", Data: "ב"})

	status, _ := testutil.Do[interface{}](t, env, testutil.Request{
		Method: fiber.MethodDelete,
		Path:   "/api/content/" + first.ID,
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusOK, status)

	_, items := testutil.Do[[]models.ContentItem](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/lessons/" + lesson.ID + "/content",
	})
	require.Len(t, items.Data, 1)
	assert.Equal(t, second.ID, items.Data[0].ID)

	status, _ = testutil.Do[interface{}](t, env, testutil.Request{
		Method: fiber.MethodDelete,
		Path:   "/api/lessons/" + lesson.ID,
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusOK, status)

	var count int64
	env.DB.Model(&models.ContentItem{}).Where("lesson_id = ?", lesson.ID).Count(&count)
	assert.Zero(t, count)

	_, lessons := testutil.Do[[]models.Lesson](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/sections/" + intro.ID + "/lessons",
	})
	assert.Empty(t, lessons.Data)
}

func TestAuthFlow(t *testing.T) {
	env := testutil.New(t)

	status, reg := testutil.Do[models.Session](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/auth/register",
		Body: models.RegisterInput{
			Username: "dana",
			Email:    "Dana@example.com",
			Password: "long-enough",
		},
	})
	require.Equal(t, fiber.StatusCreated, status, reg.Failure())
	assert.NotEmpty(t, reg.Data.Token)
	assert.Equal(t, models.RoleUser, reg.Data.User.Role)
	assert.Equal(t, "dana@example.com", reg.Data.User.Email)

	status, _ = testutil.Do[models.Session](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/auth/register",
		Body:   models.RegisterInput{Username: "dana", Email: "other@example.com", Password: "long-enough"},
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, login := testutil.Do[models.Session](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/auth/login",
		Body:   models.LoginInput{Username: "dana", Password: "long-enough"},
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, reg.Data.User.ID, login.Data.User.ID)

	status, _ = testutil.Do[models.Session](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/auth/login",
		Body:   models.LoginInput{Username: "dana", Password: "wrong-password"},
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, csrf := testutil.Do[models.CSRFToken](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/csrf-token",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, csrf.Data.Token)
	assert.True(t, csrf.Data.ExpiresAt.After(reg.Data.User.CreatedAt))
}
