package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teenfin/backend/core/lesson"
)

type LessonService interface {
	Get(ctx context.Context, userID, lessonID string) (lesson.View, error)
	Active(ctx context.Context, userID string) (lesson.View, error)
}

type lessonApi struct {
	svc LessonService
}

func registerLessonAPI(g *echo.Group, svc LessonService) {
	api := lessonApi{svc: svc}

	lg := g.Group("/lessons")
	lg.GET("", api.active)
	lg.GET("/:id", api.retrieve)
}

func (api *lessonApi) active(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	view, err := api.svc.Active(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding active lesson")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *lessonApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	view, err := api.svc.Get(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding lesson by ID")
	}
	return ctx.JSON(http.StatusOK, view)
}
