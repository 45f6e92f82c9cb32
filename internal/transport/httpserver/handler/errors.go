// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"review-engagement-service/internal/app/service"
	"review-engagement-service/internal/validator"
)

// Error codes returned in dto.ErrorResponse.Code.
const (
	CodeInvalidBody   = "INVALID_BODY"
	CodeInvalidParams = "INVALID_PARAMS"
	CodeInvalidID     = "INVALID_ID"
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeInternal      = "INTERNAL_ERROR"
)

// Error is an error with an HTTP status and a response body.
// The server's error handler renders it as dto.ErrorResponse.
type Error struct {
	Status  int
	Code    string
	Message string
	Details interface{}

	// Err is the underlying cause, logged but never sent to the client.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode reports the HTTP status to respond with.
func (e *Error) StatusCode() int { return e.Status }

func badRequest(code, msg string, details interface{}) *Error {
	return &Error{Status: fiber.StatusBadRequest, Code: code, Message: msg, Details: details}
}

// parseID reads a positive int64 route parameter.
func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(CodeInvalidID, name+" must be a positive integer", nil)
	}

	return id, nil
}

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, v *validator.Validator, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return badRequest(CodeInvalidBody, "invalid request body", nil)
	}

	return check(v, req)
}

// bindOptional is bind for bodies that may be empty.
func bindOptional(c *fiber.Ctx, v *validator.Validator, req interface{}) error {
	if len(c.Body()) == 0 {
		return check(v, req)
	}

	return bind(c, v, req)
}

// bindQuery parses query parameters into req and validates it.
func bindQuery(c *fiber.Ctx, v *validator.Validator, req interface{}) error {
	if err := c.QueryParser(req); err != nil {
		return badRequest(CodeInvalidParams, "invalid query parameters", nil)
	}

	return check(v, req)
}

func check(v *validator.Validator, req interface{}) error {
	if err := v.Validate(req); err != nil {
		return badRequest(CodeValidation, "validation failed", err)
	}

	return nil
}

// fromService maps a service error onto an HTTP error.
func fromService(op string, err error) error {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		return badRequest(CodeValidation, "validation failed", verr.Problems)
	case errors.Is(err, service.ErrInvalidInput):
		return badRequest(CodeValidation, err.Error(), nil)
	case errors.Is(err, service.ErrNotFound):
		return &Error{Status: fiber.StatusNotFound, Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, service.ErrConflict):
		return &Error{Status: fiber.StatusConflict, Code: CodeConflict, Message: err.Error()}
	default:
		return &Error{Status: fiber.StatusInternalServerError, Code: CodeInternal, Message: op + " failed", Err: err}
	}
}
