package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/ordering"
	"github.com/teenfin/backend/core/unit"
)

type UnitService interface {
	Create(ctx context.Context, nu unit.NewUnit) (unit.Unit, error)
	QueryByCourse(ctx context.Context, courseID string) ([]unit.Unit, error)
	GetByID(ctx context.Context, id string) (unit.Unit, error)
	Update(ctx context.Context, id string, uu unit.UpdateUnit) (unit.Unit, error)
	Move(ctx context.Context, courseID string, ev ordering.MoveEvent) ([]unit.Unit, error)
	Arrange(ctx context.Context, courseID string, ids []string) ([]unit.Unit, error)
	Delete(ctx context.Context, id string) error
}

type unitApi struct {
	svc      UnitService
	validate *validator.Validate
}

func registerUnitAPI(g *echo.Group, admin echo.MiddlewareFunc, svc UnitService, validate *validator.Validate) {
	api := unitApi{
		svc:      svc,
		validate: validate,
	}

	ug := g.Group("/units")
	ug.GET("", api.query)
	ug.POST("", api.create, admin)

	// detail endpoints
	ug.GET("/:id", api.retrieve)
	ug.PUT("/:id", api.update, admin)
	ug.DELETE("/:id", api.destroy, admin)
}

// Handlers

func (api *unitApi) create(ctx echo.Context) error {
	var data unit.NewUnit
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUnit")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	u, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating unit")
	}
	return ctx.JSON(http.StatusCreated, u)
}

func (api *unitApi) query(ctx echo.Context) error {
	filter := new(unit.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	if filter.CourseID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "course_id", Error: "this field is required"})
	}

	units, err := api.svc.QueryByCourse(ctx.Request().Context(), filter.CourseID)
	if err != nil {
		return errors.Wrap(err, "querying units")
	}
	return ctx.JSON(http.StatusOK, nonNilUnits(units))
}

func (api *unitApi) retrieve(ctx echo.Context) error {
	u, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding unit by ID")
	}
	return ctx.JSON(http.StatusOK, u)
}

// update also serves the per-unit reorder call: a body with only `order` (or `position`)
// writes that single position and leaves the siblings alone.
func (api *unitApi) update(ctx echo.Context) error {
	var data unit.UpdateUnit
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUnit")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	u, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating unit")
	}
	return ctx.JSON(http.StatusOK, u)
}

func (api *unitApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting unit")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func nonNilUnits(units []unit.Unit) []unit.Unit {
	if units == nil {
		return []unit.Unit{}
	}
	return units
}
