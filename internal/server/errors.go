package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/folio/internal/contact"
	"github.com/aretw0/folio/pkg/core"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// AppError carries the status and client-facing message for an error.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps err to a response status.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	var validationErr *contact.ValidationError

	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.As(err, &validationErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is what the client sees for err. Server errors never
// expose their detail.
func publicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	switch HTTPStatusCode(err) {
	case http.StatusNotFound:
		return "not found"
	case http.StatusBadRequest:
		return "invalid request"
	default:
		return "internal server error"
	}
}
