package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/philosofium/coursecontent/backend/middleware"
	"github.com/philosofium/coursecontent/backend/models"
)

// Request describes one in-process call through app.Test.
type Request struct {
	Method string
	Path   string
	Body   interface{}
	// Token is sent as a Bearer token when set.
	Token string
	// NoCSRF skips the X-CSRF-Token header on mutations.
	NoCSRF bool
}

// Do runs the request and decodes the envelope into T.
func Do[T any](t *testing.T, e *Env, r Request) (int, models.Envelope[T]) {
	t.Helper()

	var body io.Reader
	if r.Body != nil {
		jsonData, err := json.Marshal(r.Body)
		require.NoError(t, err)
		body = bytes.NewBuffer(jsonData)
	}

	req := httptest.NewRequest(r.Method, r.Path, body)
	req.Header.Set("Content-Type", "application/json")
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	if r.Method != fiber.MethodGet && !r.NoCSRF {
		req.Header.Set(middleware.HeaderCSRFToken, e.CSRFToken(t))
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env models.Envelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}
