package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/catalog"
)

var NowFunc = time.Now // mockable

type listingsApi struct {
	catalog  *catalog.Catalog
	validate *validator.Validate
}

func registerListingsAPI(g *echo.Group, cat *catalog.Catalog, validate *validator.Validate) {
	api := listingsApi{catalog: cat, validate: validate}

	g.GET("/courses", api.queryCourses)
	g.GET("/teachers", api.queryTeachers)
	g.GET("/teachers/specialties", api.querySpecialties)
	g.GET("/schedule", api.querySchedule)
}

// Handlers

func (api *listingsApi) queryCourses(ctx echo.Context) error {
	var filter catalog.CourseFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to CourseFilter")
	}
	filter.Clean()
	if err := api.validate.Struct(filter); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.catalog.FilterCourses(filter))
}

func (api *listingsApi) queryTeachers(ctx echo.Context) error {
	var filter catalog.TeacherFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to TeacherFilter")
	}
	filter.Clean()
	if err := api.validate.Struct(filter); err != nil {
		return err
	}
	teachers, err := api.catalog.FilterTeachers(filter)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "price", Error: err.Error()})
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *listingsApi) querySpecialties(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.catalog.Specialties())
}

func (api *listingsApi) querySchedule(ctx echo.Context) error {
	var filter catalog.ScheduleFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to ScheduleFilter")
	}
	if err := api.validate.Struct(filter); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.catalog.Schedule(NowFunc(), filter))
}
