package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/catalog"
	"github.com/mrxclay666777/speakyz/core/inquiry"
	"github.com/mrxclay666777/speakyz/core/locale"
	"github.com/mrxclay666777/speakyz/core/visitor"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		SignalShutdown func()

		Validate   *validator.Validate
		Translator *ut.UniversalTranslator

		Visitors   *visitor.Registry
		Locales    *locale.Catalog
		Tables     *locale.Tables
		Listings   *catalog.Catalog
		InquirySvc *inquiry.Service
		Metrics    http.Handler // not exposed when nil
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout // lifted for event streams
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug

	pages := newPageRenderer(s.opts.Locales, s.opts.Logger)
	vm := visitorMiddleware(s.opts.Visitors, conf.Preferences.CookieName, conf.Debug || conf.TestMode)
	s.app.GET("/", pages.home, vm)
	if s.opts.Metrics != nil {
		s.app.GET("/metrics", echo.WrapHandler(s.opts.Metrics))
	}

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf.SecretKey))

	registerPreferencesAPI(api.Group("", vm), s.opts.Locales, s.opts.Tables)
	registerConsentAPI(api.Group("/consent", vm))
	registerListingsAPI(api.Group("", vm), s.opts.Listings, s.opts.Validate)
	registerContactAPI(api.Group("/contact", vm), s.opts.InquirySvc)
	registerAdminAPI(api.Group("/admin"), jwt, adminApiDeps{
		conf:     conf,
		validate: s.opts.Validate,
		visitors: s.opts.Visitors,
		locales:  s.opts.Locales,
		tables:   s.opts.Tables,
		inquiry:  s.opts.InquirySvc,
	})
}

// Start blocks until the server stops. A graceful Stop makes it return nil.
func (s *server) Start() error {
	if err := s.app.Start(s.opts.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
