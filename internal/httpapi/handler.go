package httpapi

import (
	"catalog/app"
	"catalog/pkg/httperror"
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

type enveloper interface {
	Envelope() (int, app.Envelope)
}

// handle parses body, path params, and query into R, runs the handler, and
// writes its result in the response envelope.
func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return writeError(c, httperror.BadRequest(
				"request.invalid_body",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.QueryParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_query_params",
				"Invalid query params",
				fiber.Map{"error": err.Error()},
			))
		}

		ctx := context.WithValue(c.UserContext(), app.FiberContextKey, c)

		res, err := handler.Handle(ctx, &req)
		if err != nil {
			return writeError(c, err)
		}

		if env, ok := any(res).(enveloper); ok {
			status, body := env.Envelope()
			return c.Status(status).JSON(body)
		}
		return c.JSON(app.Envelope{Status: "success", Data: res})
	}
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		body := app.ErrorEnvelope(httpErr.Message)
		if httpErr.Status < fiber.StatusInternalServerError {
			body.Data = httpErr.Details
		}
		return c.Status(httpErr.Status).JSON(body)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber error", zap.String("message", fiberErr.Message), zap.Error(err))
		message := fiberErr.Message
		if fiberErr.Code >= fiber.StatusInternalServerError {
			message = app.InternalMessage
		}
		return c.Status(fiberErr.Code).JSON(app.ErrorEnvelope(message))
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(app.ErrorEnvelope(app.InternalMessage))
}
