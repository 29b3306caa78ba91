package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NewRequestLoggerMiddleware logs one line per request. It must run after
// the requestid middleware so the id is available.
func NewRequestLoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("requestId", c.GetRespHeader(fiber.HeaderXRequestID)),
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			zap.L().Error("Request failed", fields...)
		case status >= fiber.StatusBadRequest:
			zap.L().Warn("Request rejected", fields...)
		default:
			zap.L().Info("Request handled", fields...)
		}

		return err
	}
}
