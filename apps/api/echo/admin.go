package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/inquiry"
	"github.com/mrxclay666777/speakyz/core/locale"
	"github.com/mrxclay666777/speakyz/core/visitor"
)

type (
	adminApiDeps struct {
		conf     *core.Config
		validate *validator.Validate
		visitors *visitor.Registry
		locales  *locale.Catalog
		tables   *locale.Tables
		inquiry  *inquiry.Service
	}

	adminApi struct {
		adminApiDeps
	}

	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username)
	return validate.Struct(lr)
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps adminApiDeps) {
	api := adminApi{deps}

	// un-authed endpoints
	g.POST("/login", api.login)

	// authed endpoints
	ag := g.Group("", jwt, adminMiddleware)
	ag.GET("/inquiries", api.queryInquiries)
	ag.GET("/visitors", api.visitorStats)
	ag.GET("/i18n/audit", api.auditTranslations)
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := authenticate(data.Username, data.Password, api.conf)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims, api.conf.SecretKey)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *adminApi) queryInquiries(ctx echo.Context) error {
	query := new(InquiryQuery)
	if err := query.Bind(ctx); err != nil {
		return err
	}

	inqs, err := api.inquiry.Query(ctx.Request().Context(), query.QueryFilter)
	if err != nil {
		return errors.Wrap(err, "querying inquiries")
	}
	if inqs == nil {
		inqs = []inquiry.Inquiry{}
	}
	return ctx.JSON(http.StatusOK, inqs)
}

func (api *adminApi) visitorStats(ctx echo.Context) error {
	stats, err := api.visitors.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting visitor stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *adminApi) auditTranslations(ctx echo.Context) error {
	report := locale.Audit(api.locales, api.tables.Snapshot())
	if report.Issues == nil {
		report.Issues = []locale.Issue{}
	}
	return ctx.JSON(http.StatusOK, report)
}
