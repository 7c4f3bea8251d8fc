package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/teenfin/backend/core/course"
	"github.com/teenfin/backend/core/ordering"
	"github.com/teenfin/backend/core/unit"
)

type CourseService interface {
	Create(ctx context.Context, nc course.NewCourse) (course.Course, error)
	Query(ctx context.Context, filter *course.QueryFilter) ([]course.Course, error)
	GetByID(ctx context.Context, id string) (course.Course, error)
	Update(ctx context.Context, id string, uc course.UpdateCourse) (course.Course, error)
	UpdatePosition(ctx context.Context, id string, position int) (course.Course, error)
	Move(ctx context.Context, ev ordering.MoveEvent) ([]course.Course, error)
	Arrange(ctx context.Context, ids []string) ([]course.Course, error)
	Delete(ctx context.Context, id string) error
}

type courseApi struct {
	svc      CourseService
	units    UnitService
	validate *validator.Validate
}

func registerCourseAPI(
	g *echo.Group,
	admin echo.MiddlewareFunc,
	svc CourseService,
	units UnitService,
	validate *validator.Validate,
) {
	api := courseApi{
		svc:      svc,
		units:    units,
		validate: validate,
	}

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.POST("", api.create, admin)
	cg.POST("/reorder", api.move, admin)
	cg.PUT("/order", api.arrange, admin)

	// detail endpoints
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update, admin)
	cg.PATCH("/:id", api.update, admin)
	cg.DELETE("/:id", api.destroy, admin)
	cg.PATCH("/:id/reorder", api.updatePosition, admin)

	// units of a course
	cg.GET("/:id/units", api.queryUnits)
	cg.POST("/:id/units/reorder", api.moveUnit, admin)
	cg.PUT("/:id/units/order", api.arrangeUnits, admin)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) query(ctx echo.Context) error {
	filter := new(course.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []course.Course{})
	}
	filter.Clean()

	courses, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, nonNilCourses(courses))
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) update(ctx echo.Context) error {
	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) updatePosition(ctx echo.Context) error {
	var data course.UpdatePosition
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePosition")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.UpdatePosition(ctx.Request().Context(), ctx.Param("id"), data.Position)
	if err != nil {
		return errors.Wrap(err, "updating course position")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) move(ctx echo.Context) error {
	var data ordering.MoveEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveEvent")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	courses, err := api.svc.Move(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "moving course")
	}
	return ctx.JSON(http.StatusOK, nonNilCourses(courses))
}

func (api *courseApi) arrange(ctx echo.Context) error {
	var data course.NewOrder
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOrder")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	courses, err := api.svc.Arrange(ctx.Request().Context(), data.IDs)
	if err != nil {
		return errors.Wrap(err, "arranging courses")
	}
	return ctx.JSON(http.StatusOK, nonNilCourses(courses))
}

func (api *courseApi) queryUnits(ctx echo.Context) error {
	units, err := api.units.QueryByCourse(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying course units")
	}
	return ctx.JSON(http.StatusOK, nonNilUnits(units))
}

func (api *courseApi) moveUnit(ctx echo.Context) error {
	var data ordering.MoveEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveEvent")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	units, err := api.units.Move(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "moving unit")
	}
	return ctx.JSON(http.StatusOK, nonNilUnits(units))
}

func (api *courseApi) arrangeUnits(ctx echo.Context) error {
	var data unit.NewOrder
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOrder")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	units, err := api.units.Arrange(ctx.Request().Context(), ctx.Param("id"), data.IDs)
	if err != nil {
		return errors.Wrap(err, "arranging units")
	}
	return ctx.JSON(http.StatusOK, nonNilUnits(units))
}

func nonNilCourses(courses []course.Course) []course.Course {
	if courses == nil {
		return []course.Course{}
	}
	return courses
}
