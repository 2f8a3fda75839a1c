// package errs defines the JSON error envelope returned by the API
package errs

import (
	"net/http"
	"strings"
)

// FieldError is a single field-level error
type FieldError struct {
	Field   string `json:"field" doc:"Name of the offending field" example:"title"`
	Code    string `json:"code" doc:"Kind of violation" example:"required_field"`
	Message string `json:"message" doc:"Human readable message" example:"Title is required"`
}

// HTTPError is an error that knows which status it should be served with
type HTTPError struct {
	Code    string       `json:"code" doc:"Machine readable error code" example:"NOT_FOUND"`
	Message string       `json:"message" doc:"Human readable error message" example:"Todo with id 1 not found"`
	Status  int          `json:"status" doc:"HTTP status code" example:"404"`
	Errors  []FieldError `json:"errors,omitempty" doc:"Field-level errors"`
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return e.Message
}

// NewBadRequestError creates a 400 error
func NewBadRequestError(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message)
}

// NewValidationError creates a 400 error carrying the given field errors
func NewValidationError(fieldErrors []FieldError) *HTTPError {
	return &HTTPError{
		Code:    "VALIDATION_FAILED",
		Message: "Validation failed",
		Status:  http.StatusBadRequest,
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a 404 error
func NewNotFoundError(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message)
}

// NewInternalServerError creates the generic 500 error. It never leaks the cause.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func newHTTPError(status int, message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
	}
}

// MakeUpperCaseWithUnderscores turns "Not Found" into "NOT_FOUND"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
