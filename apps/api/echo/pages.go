package echoapi

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/locale"
	"github.com/mrxclay666777/speakyz/core/visitor"
	appfs "github.com/mrxclay666777/speakyz/fs"
)

var (
	homeTemplate = "templates/pages/home.gohtml"

	homeFeatures = []string{"interactive", "native", "flexible", "progress", "community", "certification"}
	homeStats    = []struct {
		key   string
		value float64
	}{
		{"hero.stats.students", 10000},
		{"hero.stats.teachers", 50},
		{"hero.stats.countries", 25},
		{"hero.stats.lessons", 100000},
	}
)

type (
	pageRenderer struct {
		homeTmpl *template.Template
		locales  *locale.Catalog
		logger   core.Logger
	}

	pageStat struct {
		Value string
		Label string
	}

	// homePage is the data of the home template. Templates translate with {{.T "key"}}.
	homePage struct {
		sess *visitor.Session

		Lang           string
		Classes        string
		Dark           bool
		Locale         locale.Entry
		Changing       bool
		Locales        []locale.Entry
		Stats          []pageStat
		Features       []string
		ConsentDecided bool
		Year           int
	}
)

func (p homePage) T(key string) string { return p.sess.Locale.Translate(key) }

func newPageRenderer(locales *locale.Catalog, logger core.Logger) *pageRenderer {
	return &pageRenderer{
		homeTmpl: template.Must(template.ParseFS(appfs.FS, homeTemplate)),
		locales:  locales,
		logger:   logger,
	}
}

func (r *pageRenderer) home(ctx echo.Context) error {
	sess, err := contextVisitor(ctx)
	if err != nil {
		return err
	}

	ls := sess.Locale.State()
	page := homePage{
		sess:     sess,
		Lang:     sess.Document.Lang(),
		Classes:  sess.Document.Classes(),
		Dark:     sess.Document.Dark(),
		Locale:   ls.Locale,
		Changing: ls.Changing,
		Features: homeFeatures,
		Year:     NowFunc().Year(),
	}
	for entry := range r.locales.All() {
		page.Locales = append(page.Locales, entry)
	}
	for _, stat := range homeStats {
		page.Stats = append(page.Stats, pageStat{
			Value: sess.Locale.FormatNumber(stat.value, 0),
			Label: sess.Locale.Translate(stat.key),
		})
	}
	if consent, err := sess.Consent(); err != nil {
		r.logger.Warn(fmt.Sprintf("pages.home: reading consent: %v", err), err, sess.Actor())
	} else {
		page.ConsentDecided = consent.Decided
	}

	var buf bytes.Buffer
	if err := r.homeTmpl.Execute(&buf, page); err != nil {
		return errors.Wrap(err, "rendering home page")
	}
	return ctx.HTMLBlob(http.StatusOK, buf.Bytes())
}
