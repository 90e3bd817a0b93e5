package response

import (
	"github.com/gofiber/fiber/v2"
)

// Message is the envelope every 4xx/5xx response (and a few informational
// 200s) uses. Success responses return the bare entity or array instead.
type Message struct {
	Message string `json:"message"`
}

// OK returns a 200 response with the given payload
func OK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// OKMessage returns a 200 response carrying only a message
func OKMessage(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(Message{Message: message})
}

// Created returns a 201 Created response with the given payload
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// NoContent returns a 204 No Content response
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Message{Message: message})
}

// NotFound returns a 404 Not Found response
func NotFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(Message{Message: message})
}

// InternalServerError returns a 500 response surfacing the store's message
// when one is available.
func InternalServerError(c *fiber.Ctx, err error) error {
	message := "internal server error"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(Message{Message: message})
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "too many requests"
	}
	return c.Status(fiber.StatusTooManyRequests).JSON(Message{Message: message})
}

// ServiceUnavailable returns a 503 Service Unavailable response
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "service temporarily unavailable"
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(Message{Message: message})
}
