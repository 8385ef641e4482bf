// Package testutil wires a real API server over an in-memory sqlite database
// for package tests.
package testutil

import (
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/routes"
	"github.com/philosofium/coursecontent/backend/utils"
)

const AdminPassword = "admin-password"

// Env is a test server with its database and an admin session.
type Env struct {
	DB         *gorm.DB
	Cfg        *config.Config
	App        *fiber.App
	Admin      models.User
	AdminToken string
	// BaseURL is set by Listen.
	BaseURL string
}

func Config() *config.Config {
	return &config.Config{
		DBDriver:     "sqlite",
		SQLitePath:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		JWTSecret:    "test-secret",
		JWTTTL:       time.Hour,
		CSRFSecret:   "test-csrf-secret",
		CSRFTTL:      time.Hour,
		ServerPort:   "0",
		LogFormat:    "console",
		LogLevel:     "error",
		CORSOrigins:  "*",
		QuietStartup: true,
	}
}

// New returns a fresh isolated server. The database lives as long as the test.
func New(t *testing.T) *Env {
	t.Helper()

	cfg := Config()
	db, err := utils.InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &Env{
		DB:  db,
		Cfg: cfg,
		App: routes.NewApp(db, cfg, utils.NopLogger()),
	}
	env.Admin = env.CreateUser(t, "admin", models.RoleAdmin)
	env.AdminToken = env.Token(t, env.Admin)
	return env
}

// Listen serves the app on a loopback port until the test ends.
func (e *Env) Listen(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = e.App.Listener(ln) }()
	t.Cleanup(func() { _ = e.App.Shutdown() })

	e.BaseURL = "http://" + ln.Addr().String()
	return e.BaseURL
}

func (e *Env) CreateUser(t *testing.T, username string, role models.Role) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, e.DB.Create(&user).Error)
	return user
}

func (e *Env) Token(t *testing.T, user models.User) string {
	t.Helper()

	token, err := utils.GenerateJWTToken(user.ID, e.Cfg)
	require.NoError(t, err)
	return token
}

func (e *Env) CSRFToken(t *testing.T) string {
	t.Helper()

	token, _, err := utils.GenerateCSRFToken(e.Cfg)
	require.NoError(t, err)
	return token
}

// SeedCourse stores an active course with an empty content tree.
func (e *Env) SeedCourse(t *testing.T, title string) models.Course {
	t.Helper()

	course := models.CourseData{Title: title, Status: models.StatusActive}.ToCourse()
	course.CourseID = uuid.NewString()[:8]
	require.NoError(t, e.DB.Create(&course).Error)
	return course
}
