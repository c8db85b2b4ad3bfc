package middleware

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// BodyLimit returns middleware that caps the request body size. The limit is
// a human-readable string: "1M", "512K", "1G"; a bare number is bytes. An
// unparsable limit falls back to 1 MB.
//
// Oversized requests get HTTP 413. The cap holds even when Content-Length is
// missing or lies, by wrapping the body in a limiting reader.
func BodyLimit(limit string) echo.MiddlewareFunc {
	limitBytes := parseLimit(limit)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Body == nil || c.Request().Body == http.NoBody {
				return next(c)
			}

			if c.Request().ContentLength > limitBytes {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
			}

			c.Request().Body = &limitedReadCloser{
				ReadCloser: c.Request().Body,
				remaining:  limitBytes,
			}

			return next(c)
		}
	}
}

// limitedReadCloser wraps an io.ReadCloser and fails once the read limit is
// exceeded.
type limitedReadCloser struct {
	io.ReadCloser
	remaining int64
	exceeded  bool
}

func (r *limitedReadCloser) Read(p []byte) (n int, err error) {
	if r.exceeded {
		return 0, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}

	// Read up to one byte past the remaining allowance to detect overflow.
	toRead := int64(len(p))
	if toRead > r.remaining+1 {
		toRead = r.remaining + 1
	}

	n, err = r.ReadCloser.Read(p[:toRead])
	r.remaining -= int64(n)

	if r.remaining < 0 {
		r.exceeded = true
		return 0, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}

	return n, err
}

// parseLimit parses a size string like "1M" or "512K" into bytes.
func parseLimit(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1 << 20
	}

	s = strings.ToUpper(s)
	var multiplier int64 = 1

	if strings.HasSuffix(s, "G") || strings.HasSuffix(s, "GB") {
		multiplier = 1 << 30
		s = strings.TrimRight(s, "GB")
	} else if strings.HasSuffix(s, "M") || strings.HasSuffix(s, "MB") {
		multiplier = 1 << 20
		s = strings.TrimRight(s, "MB")
	} else if strings.HasSuffix(s, "K") || strings.HasSuffix(s, "KB") {
		multiplier = 1 << 10
		s = strings.TrimRight(s, "KB")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 1 << 20
	}

	return n * multiplier
}
