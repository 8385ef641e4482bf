package client

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/philosofium/coursecontent/backend/models"
)

func (c *Client) FetchInstructors(ctx context.Context) (*models.Envelope[[]models.User], error) {
	return call[[]models.User](ctx, c, request{
		op:     "FetchInstructors",
		method: fiber.MethodGet,
		path:   "/api/users/instructors",
	})
}

// FetchUsersCourse lists the learner accounts that course enrollments refer to.
func (c *Client) FetchUsersCourse(ctx context.Context) (*models.Envelope[[]models.User], error) {
	return call[[]models.User](ctx, c, request{
		op:     "FetchUsersCourse",
		method: fiber.MethodGet,
		path:   "/api/users",
	})
}

// Login exchanges credentials for a session and keeps its token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Envelope[models.Session], error) {
	env, err := call[models.Session](ctx, c, request{
		op:     "Login",
		method: fiber.MethodPost,
		path:   "/api/auth/login",
		body:   models.LoginInput{Username: username, Password: password},
	})
	if err != nil {
		return nil, err
	}
	if env.Success {
		c.SetAuthToken(env.Data.Token)
	}
	return env, nil
}
