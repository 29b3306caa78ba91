package httperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
	}{
		{name: "bad request", err: BadRequest("x.bad", "bad", nil), status: fiber.StatusBadRequest},
		{name: "unauthorized", err: Unauthorized("x.auth", "auth", nil), status: fiber.StatusUnauthorized},
		{name: "forbidden", err: Forbidden("x.forbidden", "forbidden", nil), status: fiber.StatusForbidden},
		{name: "not found", err: NotFound("x.missing", "missing", nil), status: fiber.StatusNotFound},
		{name: "conflict", err: Conflict("x.dup", "dup", nil), status: fiber.StatusConflict},
		{name: "internal", err: InternalServerError("x.internal", "boom", nil), status: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.status, tt.err.Status)
		})
	}
}

func TestErrorAs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NotFound("category.show.not_found", "Category not found with id 3", nil))

	var httpErr *Error
	require.True(t, errors.As(wrapped, &httpErr))
	require.Equal(t, "Category not found with id 3", httpErr.Message)
	require.Equal(t, "category.show.not_found: Category not found with id 3", httpErr.Error())
}
