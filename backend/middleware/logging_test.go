package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philosofium/coursecontent/backend/utils"
)

func observedApp(t *testing.T) (*fiber.App, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).SendString(err.Error())
		},
	})
	app.Use(LoggingMiddleware(&utils.Logger{SugaredLogger: zap.New(core).Sugar()}))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "no such course") })
	return app, logs
}

func TestLoggedStatusIsTheSentStatus(t *testing.T) {
	tests := []struct {
		path   string
		status int
		level  zapcore.Level
	}{
		{"/ok", fiber.StatusOK, zapcore.InfoLevel},
		{"/missing", fiber.StatusNotFound, zapcore.WarnLevel},
		{"/nowhere", fiber.StatusNotFound, zapcore.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			app, logs := observedApp(t)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.EqualValues(t, tt.status, entries[0].ContextMap()["status"])
		})
	}
}
