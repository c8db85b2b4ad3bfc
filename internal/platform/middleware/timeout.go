package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestTimeout returns middleware that sets a context deadline on each
// incoming request. If the deadline passes before the handler completes, the
// request context is cancelled and a 504 response is returned. Handlers see
// the cancellation through ctx.Done and abort their database work.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			// Run the handler in a goroutine so we can select on the context.
			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					if !c.Response().Committed {
						return c.JSON(http.StatusGatewayTimeout, map[string]string{
							"error": "request timed out",
						})
					}
					return nil
				}
				// Client disconnects cancel the context without a deadline.
				return ctx.Err()
			}
		}
	}
}
