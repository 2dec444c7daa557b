package routing

import (
	"net/http"

	apperrors "github.com/spec-kit/hrms-service/pkg/util"
)

// Result is a successful handler outcome, rendered into the response envelope.
type Result struct {
	Status     int
	Message    string
	Data       any
	Pagination *apperrors.Pagination
}

// OK is a 200 result.
func OK(message string, data any) *Result {
	return &Result{Status: http.StatusOK, Message: message, Data: data}
}

// Created is a 201 result.
func Created(message string, data any) *Result {
	return &Result{Status: http.StatusCreated, Message: message, Data: data}
}

// NoContent is a 204 result; it is sent without a body.
func NoContent() *Result {
	return &Result{Status: http.StatusNoContent}
}

// Paginated is a 200 result carrying a pagination block.
func Paginated(message string, data any, page apperrors.Pagination) *Result {
	return &Result{Status: http.StatusOK, Message: message, Data: data, Pagination: &page}
}
