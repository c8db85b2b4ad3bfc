package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
)

// APIKeyMiddleware guards API routes with the shared bearer credential. The
// key is compared per request and is independent of login tokens.
func APIKeyMiddleware(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return httperr.Unauthorized("missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return httperr.Unauthorized("invalid authorization format")
			}

			if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(apiKey)) != 1 {
				return httperr.Unauthorized("invalid api key")
			}

			return next(c)
		}
	}
}
