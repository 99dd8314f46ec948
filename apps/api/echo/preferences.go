package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core/locale"
	"github.com/mrxclay666777/speakyz/core/prefs"
	"github.com/mrxclay666777/speakyz/core/theme"
	"github.com/mrxclay666777/speakyz/core/visitor"
)

var eventsKeepAlive = 15 * time.Second

type (
	preferencesApi struct {
		locales *locale.Catalog
		tables  *locale.Tables
	}

	// Preferences is the combined state of a visitor's theme & locale stores.
	Preferences struct {
		Theme              theme.Mode   `json:"theme"`
		ThemeSource        prefs.Source `json:"theme_source"`
		ThemeTransitioning bool         `json:"theme_transitioning"`
		Locale             locale.Entry `json:"locale"`
		LocaleChanging     bool         `json:"locale_changing"`
	}

	ChangeLocaleRequest struct {
		Code string `json:"code"`
	}
)

func registerPreferencesAPI(g *echo.Group, locales *locale.Catalog, tables *locale.Tables) {
	api := preferencesApi{locales: locales, tables: tables}

	g.GET("/preferences", api.retrieve)
	g.POST("/preferences/theme/toggle", api.toggleTheme)
	g.PUT("/preferences/locale", api.changeLocale)
	g.GET("/preferences/events", api.events)

	g.GET("/locales", api.queryLocales)
	g.GET("/translations", api.translations)
}

func preferencesOf(sess *visitor.Session) Preferences {
	ts, ls := sess.Theme.State(), sess.Locale.State()
	return Preferences{
		Theme:              ts.Mode,
		ThemeSource:        ts.Source,
		ThemeTransitioning: ts.Transitioning,
		Locale:             ls.Locale,
		LocaleChanging:     ls.Changing,
	}
}

// Handlers

func (api *preferencesApi) retrieve(ctx echo.Context) error {
	sess, err := contextVisitor(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, preferencesOf(sess))
}

func (api *preferencesApi) toggleTheme(ctx echo.Context) error {
	sess, err := contextVisitor(ctx)
	if err != nil {
		return err
	}
	sess.Theme.Toggle()
	return ctx.JSON(http.StatusOK, preferencesOf(sess))
}

// changeLocale answers with the unchanged preferences when the code is unknown or already active.
func (api *preferencesApi) changeLocale(ctx echo.Context) error {
	sess, err := contextVisitor(ctx)
	if err != nil {
		return err
	}
	var data ChangeLocaleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeLocaleRequest")
	}
	sess.Locale.ChangeLocale(strings.TrimSpace(data.Code))
	return ctx.JSON(http.StatusOK, preferencesOf(sess))
}

// events streams the visitor's preferences (Server-Sent Events) every time one of its stores notifies,
// starting with the current ones. The subscriptions end with the request.
func (api *preferencesApi) events(ctx echo.Context) error {
	sess, err := contextVisitor(ctx)
	if err != nil {
		return err
	}

	// the stream is subscribed to this session's stores: it must outlive idle eviction
	release := sess.Hold()
	defer release()

	updates := make(chan struct{}, 1)
	poke := func() {
		select {
		case updates <- struct{}{}:
		default: // an update is already pending; it will read the latest state
		}
	}
	unsubTheme := sess.Theme.Subscribe(func(theme.State) { poke() })
	defer unsubTheme()
	unsubLocale := sess.Locale.Subscribe(func(locale.State) { poke() })
	defer unsubLocale()

	res := ctx.Response()
	// the stream outlives the server's write timeout
	_ = http.NewResponseController(res.Writer).SetWriteDeadline(time.Time{})
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	if err := writeEvent(res, preferencesOf(sess)); err != nil {
		return nil // client gone
	}

	keepAlive := time.NewTicker(eventsKeepAlive)
	defer keepAlive.Stop()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case <-updates:
			if err := writeEvent(res, preferencesOf(sess)); err != nil {
				return nil
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func writeEvent(res *echo.Response, p Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "event: preferences\ndata: %s\n\n", data); err != nil {
		return err
	}
	res.Flush()
	return nil
}

func (api *preferencesApi) queryLocales(ctx echo.Context) error {
	entries := make([]locale.Entry, 0, api.locales.Len())
	for entry := range api.locales.All() {
		entries = append(entries, entry)
	}
	return ctx.JSON(http.StatusOK, entries)
}

// translations answers {key: text} in the visitor's locale for `?keys=a,b`, every key when omitted.
func (api *preferencesApi) translations(ctx echo.Context) error {
	sess, err := contextVisitor(ctx)
	if err != nil {
		return err
	}

	var keys []string
	if param := ctx.QueryParam("keys"); param != "" {
		for _, key := range strings.Split(param, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
	} else {
		keys = api.tables.Keys()
	}

	texts := make(map[string]string, len(keys))
	for _, key := range keys {
		texts[key] = sess.Locale.Translate(key)
	}
	return ctx.JSON(http.StatusOK, texts)
}
