package client

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/philosofium/coursecontent/backend/models"
)

// FetchLessons returns the lessons of all given sections in one round trip,
// section by section in the order given.
func (c *Client) FetchLessons(ctx context.Context, sectionIDs []string) (*models.Envelope[[]models.Lesson], error) {
	return call[[]models.Lesson](ctx, c, request{
		op:     "FetchLessons",
		method: fiber.MethodGet,
		path:   "/api/lessons",
		query:  idList("sectionIds", sectionIDs),
	})
}

func (c *Client) CreateLesson(ctx context.Context, sectionID string, data models.LessonData) (*models.Envelope[models.Lesson], error) {
	return call[models.Lesson](ctx, c, request{
		op:     "CreateLesson",
		method: fiber.MethodPost,
		path:   "/api/sections/" + pathID(sectionID) + "/lessons",
		body:   data,
	})
}

func (c *Client) UpdateLesson(ctx context.Context, id string, update models.LessonUpdate) (*models.Envelope[models.Lesson], error) {
	return call[models.Lesson](ctx, c, request{
		op:     "UpdateLesson",
		method: fiber.MethodPut,
		path:   "/api/lessons/" + pathID(id),
		body:   update,
	})
}

func (c *Client) DeleteLesson(ctx context.Context, id string) (*models.Envelope[models.Deleted], error) {
	return call[models.Deleted](ctx, c, request{
		op:     "DeleteLesson",
		method: fiber.MethodDelete,
		path:   "/api/lessons/" + pathID(id),
	})
}
