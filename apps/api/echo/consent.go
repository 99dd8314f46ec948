package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core/visitor"
)

func registerConsentAPI(g *echo.Group) {
	g.GET("", retrieveConsent)
	g.PUT("", updateConsent)
	g.POST("/accept-all", setConsent(visitor.AcceptAllConsent))
	g.POST("/reject", setConsent(visitor.NecessaryOnly))
}

func retrieveConsent(ctx echo.Context) error {
	sess, err := contextVisitor(ctx)
	if err != nil {
		return err
	}
	state, err := sess.Consent()
	if err != nil {
		return errors.Wrap(err, "reading consent")
	}
	return ctx.JSON(http.StatusOK, state)
}

func updateConsent(ctx echo.Context) error {
	var data visitor.Consent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Consent")
	}
	return setConsent(data)(ctx)
}

func setConsent(c visitor.Consent) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sess, err := contextVisitor(ctx)
		if err != nil {
			return err
		}
		state, err := sess.SetConsent(c)
		if err != nil {
			return errors.Wrap(err, "storing consent")
		}
		return ctx.JSON(http.StatusOK, state)
	}
}
