package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/philosofium/coursecontent/backend/utils"
)

func LoggingMiddleware(logger *utils.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		chainErr := c.Next()
		// The error handler writes the response, so the status below is final.
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []interface{}{
			"ip", c.IP(),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		}
		if chainErr != nil {
			fields = append(fields, "error", chainErr)
		}

		switch {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
		return nil
	}
}
