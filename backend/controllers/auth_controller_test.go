package controllers_test

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/testutil"
)

func TestRegisterFailsWhenUserLookupFails(t *testing.T) {
	env := testutil.New(t)

	const name = "fail_user_lookup"
	require.NoError(t, env.DB.Callback().Query().Before("gorm:query").Register(name, func(db *gorm.DB) {
		if db.Statement.Table == "users" {
			_ = db.AddError(errors.New("database is locked"))
		}
	}))

	status, resp := testutil.Do[models.Session](t, env, testutil.Request{
		Method: fiber.MethodPost,
		Path:   "/api/auth/register",
		Body:   models.RegisterInput{Username: "dana", Email: "dana@example.com", Password: "long-enough"},
	})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.False(t, resp.Success)

	require.NoError(t, env.DB.Callback().Query().Remove(name))
	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Where("username = ?", "dana").Count(&count).Error)
	assert.Zero(t, count)
}

func TestServerStartsWithoutBanner(t *testing.T) {
	env := testutil.New(t)
	assert.True(t, env.App.Config().DisableStartupMessage)
}
