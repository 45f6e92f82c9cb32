// Package service provides application use cases.
package service

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a review, reply or report does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for requests the domain rejects.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when the request clashes with existing state,
	// e.g. a second review of the same book by one user.
	ErrConflict = errors.New("conflict")
)

// ValidationError lists every constraint an entity violates.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// validate turns a non-empty problem list into a ValidationError.
func validate(problems []string) error {
	if len(problems) == 0 {
		return nil
	}

	return &ValidationError{Problems: problems}
}
