package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core/inquiry"
)

type (
	contactApi struct {
		svc *inquiry.Service
	}

	ContactOptions struct {
		Interests        []string `json:"interests"`
		PreferredContact []string `json:"preferred_contact"`
		EnglishLevels    []string `json:"english_levels"`
	}

	ContactResponse struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
)

func registerContactAPI(g *echo.Group, svc *inquiry.Service) {
	api := contactApi{svc: svc}

	g.GET("/options", api.options)
	g.POST("", api.submit)
}

// Handlers

func (api *contactApi) options(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, ContactOptions{
		Interests:        inquiry.InterestOptions,
		PreferredContact: []string{"email", "phone", "telegram"},
		EnglishLevels:    []string{"beginner", "intermediate", "advanced"},
	})
}

func (api *contactApi) submit(ctx echo.Context) error {
	sess, err := contextVisitor(ctx)
	if err != nil {
		return err
	}

	var data inquiry.NewInquiry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInquiry")
	}

	inq, err := api.svc.Submit(ctx.Request().Context(), sess.ID, sess.Locale.Current().Code, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ContactResponse{
		ID:      inq.ID,
		Message: sess.Locale.Translate("contact.success"),
	})
}
