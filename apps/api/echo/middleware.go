package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teenfin/backend/core"
)

// adminMiddleware lets through the users of the configured admin allow-list only.
func adminMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if conf.IsAdmin(claims.Subject) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
