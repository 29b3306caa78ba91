package app

import (
	"catalog/domain"
	"catalog/pkg/httperror"
	"catalog/pkg/validation"
	"errors"

	"go.uber.org/zap"
)

// InternalMessage is the only detail clients see for unexpected failures.
const InternalMessage = "Something went wrong. Please try again."

type contextKey string

// FiberContextKey holds the *fiber.Ctx in the request context for handlers
// that read multipart bodies.
const FiberContextKey contextKey = "fiber"

// Validate runs the struct rules on req. The message of the returned
// BadRequest is the first failing field.
func Validate(code string, req any) error {
	err := validation.Struct(req)
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if errors.As(err, &errs) {
		return httperror.BadRequest(code+".validation_failed", validation.First(errs), errs)
	}

	zap.L().Error("Unexpected validation error", zap.String("code", code), zap.Error(err))
	return httperror.InternalServerError(code+".validation_error", InternalMessage, nil)
}

// HTTPError translates a service error into an httperror. Unexpected errors
// are logged here and reach the client only as InternalMessage.
func HTTPError(code string, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		return httpErr
	}

	message := err.Error()
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return httperror.NotFound(code+".not_found", message, nil)
	case errors.Is(err, domain.ErrDuplicateKey):
		return httperror.Conflict(code+".duplicate", message, nil)
	case errors.Is(err, domain.ErrValidation):
		return httperror.BadRequest(code+".validation_failed", message, nil)
	}

	zap.L().Error("Service call failed", zap.String("code", code), zap.Error(err))
	return httperror.InternalServerError(code+".failed", InternalMessage, nil)
}
