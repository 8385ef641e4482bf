package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/testutil"
)

func TestCreateCourse(t *testing.T) {
	env := testutil.New(t)

	status, resp := testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses",
		Body:   models.CourseData{Title: "Hebrew 101", Status: models.StatusActive},
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.True(t, resp.Success)
	assert.Equal(t, "hebrew-101", resp.Data.CourseID)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, models.LevelBeginner, resp.Data.Level)
	assert.Empty(t, resp.Data.Sections)

	// same title gets a suffixed slug
	status, resp = testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses",
		Body:   models.CourseData{Title: "Hebrew 101"},
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "hebrew-101-2", resp.Data.CourseID)
}

func TestCreateCourseRequiresAdmin(t *testing.T) {
	env := testutil.New(t)
	student := env.CreateUser(t, "student", models.RoleUser)

	status, resp := testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses",
		Body:   models.CourseData{Title: "Nope"},
		Token:  env.Token(t, student),
	})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.False(t, resp.Success)

	status, _ = testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses",
		Body:   models.CourseData{Title: "Nope"},
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestCreateCourseValidation(t *testing.T) {
	env := testutil.New(t)

	status, resp := testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses",
		Body:   map[string]interface{}{"title": "", "level": "expert"},
		Token:  env.AdminToken,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.False(t, resp.Success)
	assert.Equal(t, "this field is required", resp.Details["title"])
	assert.Contains(t, resp.Details, "level")
}

func TestMutationWithoutCSRFToken(t *testing.T) {
	env := testutil.New(t)

	status, resp := testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses",
		Body:   models.CourseData{Title: "Hebrew 101"},
		Token:  env.AdminToken,
		NoCSRF: true,
	})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "invalid csrf token", resp.Error)
}

func TestGetCourseBySlugOrID(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Greek")

	for _, key := range []string{course.ID, course.CourseID} {
		status, resp := testutil.Do[models.Course](t, env, testutil.Request{
			Method: fiber.MethodGet,
			Path:   "/api/courses/" + key,
		})
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, course.ID, resp.Data.ID)
	}

	status, resp := testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/courses/missing",
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Course not found", resp.Error)
}

func TestUpdateCourse(t *testing.T) {
	env := testutil.New(t)
	course := env.SeedCourse(t, "Greek")

	title := "Ancient Greek"
	status, resp := testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodPut,
		Path:   "/api/courses/" + course.CourseID,
		Body:   models.CourseUpdate{Title: &title},
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Ancient Greek", resp.Data.Title)
	// untouched fields survive
	assert.Equal(t, models.StatusActive, resp.Data.Status)
	assert.Equal(t, course.CourseID, resp.Data.CourseID)
}

func TestListCoursesFiltersByStatus(t *testing.T) {
	env := testutil.New(t)
	env.SeedCourse(t, "Active one")
	draft := models.CourseData{Title: "Draft one"}.ToCourse()
	draft.CourseID = "draft-one"
	require.NoError(t, env.DB.Create(&draft).Error)

	status, resp := testutil.Do[[]models.Course](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/courses?status=draft",
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "draft-one", resp.Data[0].CourseID)
}

func TestEnroll(t *testing.T) {
	env := testutil.New(t)
	course := models.CourseData{Title: "Small group", Status: models.StatusActive, MaxParticipants: 1}.ToCourse()
	course.CourseID = "small-group"
	require.NoError(t, env.DB.Create(&course).Error)

	first := env.CreateUser(t, "first", models.RoleUser)
	second := env.CreateUser(t, "second", models.RoleUser)

	status, resp := testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses/small-group/enroll",
		Token:  env.Token(t, first),
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []string{first.ID}, resp.Data.Users)
	assert.Equal(t, models.StatusFull, resp.Data.Status)

	// enrolling again is a no-op
	status, resp = testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses/small-group/enroll",
		Token:  env.Token(t, first),
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, resp.Data.Users, 1)

	status, resp = testutil.Do[models.Course](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/courses/small-group/enroll",
		Token:  env.Token(t, second),
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.False(t, resp.Success)
}

func TestUsersByRole(t *testing.T) {
	env := testutil.New(t)
	env.CreateUser(t, "rivka", models.RoleInstructor)
	env.CreateUser(t, "learner", models.RoleUser)

	status, resp := testutil.Do[[]models.User](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/users/instructors",
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "rivka", resp.Data[0].Username)

	status, _ = testutil.Do[[]models.User](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/users",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, resp = testutil.Do[[]models.User](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/users",
		Token:  env.AdminToken,
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "learner", resp.Data[0].Username)
}

func TestUnknownRouteKeepsEnvelope(t *testing.T) {
	env := testutil.New(t)

	status, resp := testutil.Do[interface{}](t, env, testutil.Request{
		Method: fiber.MethodGet,
		Path:   "/api/nowhere",
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}
