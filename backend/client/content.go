package client

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/philosofium/coursecontent/backend/models"
)

// FetchContentItems returns the listed items in the order of ids. Unknown
// ids are skipped by the server.
func (c *Client) FetchContentItems(ctx context.Context, ids []string) (*models.Envelope[[]models.ContentItem], error) {
	return call[[]models.ContentItem](ctx, c, request{
		op:     "FetchContentItems",
		method: fiber.MethodGet,
		path:   "/api/content",
		query:  idList("ids", ids),
	})
}

func (c *Client) CreateContentItem(ctx context.Context, lessonID string, data models.ContentItemData) (*models.Envelope[models.ContentItem], error) {
	return call[models.ContentItem](ctx, c, request{
		op:     "CreateContentItem",
		method: fiber.MethodPost,
		path:   "/api/lessons/" + pathID(lessonID) + "/content",
		body:   data,
	})
}

func (c *Client) UpdateContentItem(ctx context.Context, id string, update models.ContentItemUpdate) (*models.Envelope[models.ContentItem], error) {
	return call[models.ContentItem](ctx, c, request{
		op:     "UpdateContentItem",
		method: fiber.MethodPut,
		path:   "/api/content/" + pathID(id),
		body:   update,
	})
}

func (c *Client) DeleteContentItem(ctx context.Context, id string) (*models.Envelope[models.Deleted], error) {
	return call[models.Deleted](ctx, c, request{
		op:     "DeleteContentItem",
		method: fiber.MethodDelete,
		path:   "/api/content/" + pathID(id),
	})
}
