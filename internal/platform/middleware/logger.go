package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
)

// Logger returns middleware that writes one structured log line per request.
// Server errors log at error level, client errors at warn, everything else at
// info.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			// When the handler errored the response is not written yet, so
			// the status has to come from the error itself.
			status := c.Response().Status
			if err != nil {
				var apiErr *httperr.Error
				var echoErr *echo.HTTPError
				switch {
				case errors.As(err, &apiErr):
					status = apiErr.Status
				case errors.As(err, &echoErr):
					status = echoErr.Code
				default:
					status = http.StatusInternalServerError
				}
			}

			var evt *zerolog.Event
			switch {
			case status >= 500:
				evt = logger.Error()
			case status >= 400:
				evt = logger.Warn()
			default:
				evt = logger.Info()
			}
			if err != nil {
				evt = evt.Err(err)
			}

			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}
