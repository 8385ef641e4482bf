package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse структура для успешных ответов
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// ErrorResponse структура для ошибок.
// Error carries the user-facing reason, Message the HTTP status text.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func send(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(SuccessResponse{Success: true, Data: data})
}

// OK отправляет ответ 200 с данными
func OK(c *fiber.Ctx, data interface{}) error {
	return send(c, fiber.StatusOK, data)
}

// Created отправляет ответ 201 Created
func Created(c *fiber.Ctx, data interface{}) error {
	return send(c, fiber.StatusCreated, data)
}

// Error создает JSON ответ с ошибкой. details, when given, is sent as is.
func Error(c *fiber.Ctx, status int, err error, details ...interface{}) error {
	response := ErrorResponse{
		Error:   err.Error(),
		Message: http.StatusText(status),
	}
	if len(details) > 0 {
		response.Details = details[0]
	}
	return c.Status(status).JSON(response)
}

// ValidationError answers 422 with one message per offending field.
func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return Error(c, fiber.StatusUnprocessableEntity, fiber.NewError(fiber.StatusUnprocessableEntity, "Validation Error"), fields)
}

func fail(c *fiber.Ctx, status int, message string) error {
	return Error(c, status, fiber.NewError(status, message))
}

func NotFound(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusNotFound, message)
}

func BadRequest(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusBadRequest, message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusUnauthorized, message)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusForbidden, message)
}

// Conflict is used for taken slugs, usernames and sibling orders.
func Conflict(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusConflict, message)
}

func InternalServerError(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusInternalServerError, message)
}
