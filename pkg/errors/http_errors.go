package errors

import (
	"fmt"
	"net/http"
)

// FromError converts a standard error to an AppError
// If the error is already an AppError, it is returned as-is
// Otherwise, it is wrapped as an internal server error
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalServerError(
		"INTERNAL_ERROR",
		fmt.Sprintf("An unexpected error occurred: %s", err.Error()),
	)
}

// GetStatusCode extracts the HTTP status code from an AppError, returns 500 if not an AppError
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
