// Package httperr defines the error taxonomy shared by every domain service
// and the echo error handler that renders it. Services return these errors;
// nothing below the handler writes a response itself.
package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Error is a classified application error. Internal carries the underlying
// cause for logging and is never serialized to the caller.
type Error struct {
	Status     int      `json:"-"`
	Message    string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
	Internal   error    `json:"-"`
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Internal }

// NotFound reports that the referenced entity does not exist.
func NotFound(resource string) *Error {
	return &Error{Status: http.StatusNotFound, Message: resource + " not found"}
}

// Conflict reports a uniqueness violation, a scheduling overlap or a
// dependent-entity deletion block.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// Unauthorized reports bad credentials or an invalid bearer token.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Validation reports one or more field-constraint failures, collected so the
// caller gets complete feedback in a single round trip.
func Validation(violations ...string) *Error {
	return &Error{
		Status:     http.StatusBadRequest,
		Message:    "validation failed",
		Violations: violations,
	}
}

// Internal wraps an unexpected failure. The cause is logged by the error
// handler; the caller only sees a generic message.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "internal server error", Internal: err}
}

// IsNotFound reports whether err classifies as NotFound.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusNotFound
}

// IsConflict reports whether err classifies as Conflict.
func IsConflict(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusConflict
}

// IsValidation reports whether err classifies as Validation.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusBadRequest
}

// IsUnauthorized reports whether err classifies as Unauthorized.
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusUnauthorized
}

// NewHandler returns an echo.HTTPErrorHandler that maps the taxonomy to JSON
// responses. Unclassified errors become 500s with the detail logged, not
// returned.
func NewHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *Error
		var echoErr *echo.HTTPError

		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &echoErr):
			apiErr = &Error{Status: echoErr.Code, Message: fmt.Sprintf("%v", echoErr.Message)}
		default:
			apiErr = Internal(err)
		}

		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(apiErr.Status)
		} else {
			err = c.JSON(apiErr.Status, apiErr)
		}
		if err != nil {
			logger.Error().Err(err).Msg("writing error response")
		}
	}
}
