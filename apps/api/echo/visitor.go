package echoapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core/visitor"
)

const (
	contextVisitorKey = "visitor"

	headerColorScheme    = "Sec-CH-Prefers-Color-Scheme"
	headerAcceptLanguage = "Accept-Language"
	cookieMaxAge         = 365 * 24 * time.Hour
)

// visitorMiddleware attaches the visitor's session to the context, issuing a visitor cookie on the
// first visit. The browser's color scheme hint is forwarded on every request.
func visitorMiddleware(registry *visitor.Registry, cookieName string, insecure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			env := visitor.ParseEnv(req.Header.Get(headerColorScheme), req.Header.Get(headerAcceptLanguage))

			var id string
			if cookie, err := ctx.Cookie(cookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					id = cookie.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				ctx.SetCookie(&http.Cookie{
					Name:     cookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(cookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   !insecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sess, err := registry.Session(id, env)
			if err != nil {
				return errors.Wrap(err, "getting visitor session")
			}
			sess.ObserveEnv(env)

			// ask for the color scheme hint on the next requests
			res := ctx.Response().Header()
			res.Set("Accept-CH", headerColorScheme)
			res.Add(echo.HeaderVary, headerColorScheme)

			ctx.Set(contextVisitorKey, sess)
			return next(ctx)
		}
	}
}

func contextVisitor(ctx echo.Context) (*visitor.Session, error) {
	if sess, ok := ctx.Get(contextVisitorKey).(*visitor.Session); ok {
		return sess, nil
	}
	return nil, errNoVisitor
}

// contextLocale is the visitor's locale code, english outside of visitor routes.
func contextLocale(ctx echo.Context) string {
	if sess, err := contextVisitor(ctx); err == nil {
		return sess.Locale.Current().Code
	}
	return "en"
}
