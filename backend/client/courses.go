package client

import (
	"context"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/philosofium/coursecontent/backend/models"
)

// FetchCourseContent returns the course with its sections resolved.
// Instructors and users come back as id stubs.
func (c *Client) FetchCourseContent(ctx context.Context, courseID string) (*models.Envelope[models.PopulatedCourse], error) {
	return call[models.PopulatedCourse](ctx, c, request{
		op:     "FetchCourseContent",
		method: fiber.MethodGet,
		path:   "/api/courses/" + pathID(courseID) + "/content",
	})
}

// ListCourses returns the catalog. An empty status lists every course.
func (c *Client) ListCourses(ctx context.Context, status models.CourseStatus) (*models.Envelope[[]models.Course], error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {string(status)}}
	}
	return call[[]models.Course](ctx, c, request{
		op:     "ListCourses",
		method: fiber.MethodGet,
		path:   "/api/courses",
		query:  query,
	})
}

func (c *Client) FetchCourse(ctx context.Context, courseID string) (*models.Envelope[models.Course], error) {
	return call[models.Course](ctx, c, request{
		op:     "FetchCourse",
		method: fiber.MethodGet,
		path:   "/api/courses/" + pathID(courseID),
	})
}

func (c *Client) CreateCourse(ctx context.Context, data models.CourseData) (*models.Envelope[models.Course], error) {
	return call[models.Course](ctx, c, request{
		op:     "CreateCourse",
		method: fiber.MethodPost,
		path:   "/api/courses",
		body:   data,
	})
}

func (c *Client) UpdateCourse(ctx context.Context, courseID string, update models.CourseUpdate) (*models.Envelope[models.Course], error) {
	return call[models.Course](ctx, c, request{
		op:     "UpdateCourse",
		method: fiber.MethodPut,
		path:   "/api/courses/" + pathID(courseID),
		body:   update,
	})
}

func (c *Client) DeleteCourse(ctx context.Context, courseID string) (*models.Envelope[models.Deleted], error) {
	return call[models.Deleted](ctx, c, request{
		op:     "DeleteCourse",
		method: fiber.MethodDelete,
		path:   "/api/courses/" + pathID(courseID),
	})
}

// Enroll adds the authenticated user to the course.
func (c *Client) Enroll(ctx context.Context, courseID string) (*models.Envelope[models.Course], error) {
	return call[models.Course](ctx, c, request{
		op:     "Enroll",
		method: fiber.MethodPost,
		path:   "/api/courses/" + pathID(courseID) + "/enroll",
	})
}
