package server

import (
	"errors"
	"net/http"

	"ishe/internal/recordings"
	"ishe/internal/services"
)

// statusFor maps store and validation errors to HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, recordings.ErrInvalidName), errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, recordings.ErrNotFound), errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
