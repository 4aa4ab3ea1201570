package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error is a business-rule failure carrying the HTTP status the handler
// should set. Services return these; anything else becomes a 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Message: msg}
}

// JSONError shapes the error envelope for a service failure.
func JSONError(c echo.Context, err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.Status, Fail(apiErr.Message))
	}
	return c.JSON(http.StatusInternalServerError, Fail("internal server error"))
}
