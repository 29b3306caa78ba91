package app

import (
	"github.com/gofiber/fiber/v2"
)

// Envelope is the body of every HTTP response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Response is a successful handler result. The HTTP layer writes it as an
// Envelope with StatusCode, or 200 when StatusCode is zero.
type Response[T any] struct {
	StatusCode int
	Message    string
	Data       T
}

func OK[T any](message string, data T) *Response[T] {
	return &Response[T]{StatusCode: fiber.StatusOK, Message: message, Data: data}
}

func Created[T any](message string, data T) *Response[T] {
	return &Response[T]{StatusCode: fiber.StatusCreated, Message: message, Data: data}
}

func (r *Response[T]) Envelope() (int, Envelope) {
	status := r.StatusCode
	if status == 0 {
		status = fiber.StatusOK
	}
	return status, Envelope{Status: "success", Message: r.Message, Data: r.Data}
}

func ErrorEnvelope(message string) Envelope {
	return Envelope{Status: "error", Message: message}
}
