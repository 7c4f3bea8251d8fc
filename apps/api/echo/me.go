package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teenfin/backend/core"
)

type MeResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

func registerMeAPI(g *echo.Group, conf *core.Config) {
	g.GET("/me", func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		return ctx.JSON(http.StatusOK, MeResponse{
			ID:      claims.Subject,
			Name:    claims.Name,
			IsAdmin: conf.IsAdmin(claims.Subject),
		})
	})
}
