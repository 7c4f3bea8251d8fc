package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teenfin/backend/core/progress"
)

type ProgressService interface {
	Get(ctx context.Context, userID string) (progress.UserProgress, error)
	SelectCourse(ctx context.Context, userID, userName string, sc progress.SelectCourse) (progress.UserProgress, error)
	Shop(ctx context.Context, userID string) (progress.Shop, error)
	RefillHearts(ctx context.Context, userID string) (progress.Shop, error)
	CompleteChallenge(ctx context.Context, userID, challengeID string) (progress.UserProgress, error)
	ReduceHearts(ctx context.Context, userID, challengeID string) (progress.UserProgress, error)
}

type progressApi struct {
	svc      ProgressService
	validate *validator.Validate
}

func registerProgressAPI(g *echo.Group, svc ProgressService, validate *validator.Validate) {
	api := progressApi{
		svc:      svc,
		validate: validate,
	}

	g.GET("/progress", api.retrieve)
	g.PUT("/progress/active-course", api.selectCourse)
	g.GET("/shop", api.shop)
	g.POST("/shop/refill-hearts", api.refillHearts)
	g.POST("/challenges/:id/complete", api.completeChallenge)
	g.POST("/challenges/:id/mistake", api.reduceHearts)
}

// Handlers

func (api *progressApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	p, err := api.svc.Get(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding user progress")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *progressApi) selectCourse(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data progress.SelectCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SelectCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.SelectCourse(ctx.Request().Context(), claims.Subject, claims.Name, data)
	if err != nil {
		return errors.Wrap(err, "selecting active course")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *progressApi) shop(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	s, err := api.svc.Shop(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "loading shop")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *progressApi) refillHearts(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	s, err := api.svc.RefillHearts(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "refilling hearts")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *progressApi) completeChallenge(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	p, err := api.svc.CompleteChallenge(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "completing challenge")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *progressApi) reduceHearts(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	p, err := api.svc.ReduceHearts(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "reducing hearts")
	}
	return ctx.JSON(http.StatusOK, p)
}
