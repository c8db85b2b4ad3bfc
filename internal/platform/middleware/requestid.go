package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader is the header used to propagate request ids.
const RequestIDHeader = "X-Request-ID"

// RequestID returns middleware that assigns each request an id, reusing the
// incoming X-Request-ID header when the caller already set one. The id is
// stored in the echo context under "request_id" and echoed back in the
// response header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}

			c.Set("request_id", rid)
			c.Response().Header().Set(RequestIDHeader, rid)

			return next(c)
		}
	}
}
