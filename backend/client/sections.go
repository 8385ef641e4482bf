package client

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/philosofium/coursecontent/backend/models"
)

// FetchSections lists the course's sections in display order.
func (c *Client) FetchSections(ctx context.Context, courseID string) (*models.Envelope[[]models.Section], error) {
	return call[[]models.Section](ctx, c, request{
		op:     "FetchSections",
		method: fiber.MethodGet,
		path:   "/api/courses/" + pathID(courseID) + "/sections",
	})
}

func (c *Client) CreateSection(ctx context.Context, courseID string, data models.SectionData) (*models.Envelope[models.Section], error) {
	return call[models.Section](ctx, c, request{
		op:     "CreateSection",
		method: fiber.MethodPost,
		path:   "/api/courses/" + pathID(courseID) + "/sections",
		body:   data,
	})
}

func (c *Client) UpdateSection(ctx context.Context, id string, update models.SectionUpdate) (*models.Envelope[models.Section], error) {
	return call[models.Section](ctx, c, request{
		op:     "UpdateSection",
		method: fiber.MethodPut,
		path:   "/api/sections/" + pathID(id),
		body:   update,
	})
}

func (c *Client) DeleteSection(ctx context.Context, id string) (*models.Envelope[models.Deleted], error) {
	return call[models.Deleted](ctx, c, request{
		op:     "DeleteSection",
		method: fiber.MethodDelete,
		path:   "/api/sections/" + pathID(id),
	})
}
