package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// statusCoder is implemented by handler errors that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

// statusOf predicts the status the error handler will write for err.
func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}

	return fiber.StatusInternalServerError
}
