package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	echoapi "github.com/mrxclay666777/speakyz/apps/api/echo"
	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/catalog"
	"github.com/mrxclay666777/speakyz/core/inquiry"
	"github.com/mrxclay666777/speakyz/core/locale"
	"github.com/mrxclay666777/speakyz/core/visitor"
	appfs "github.com/mrxclay666777/speakyz/fs"
	emailsvc "github.com/mrxclay666777/speakyz/services/email"
	"github.com/mrxclay666777/speakyz/services/i18nwatch"
	logsvc "github.com/mrxclay666777/speakyz/services/logger"
	metricsvc "github.com/mrxclay666777/speakyz/services/metrics"
	notifysvc "github.com/mrxclay666777/speakyz/services/notify"
	"github.com/mrxclay666777/speakyz/storage/database"
	inmemdb "github.com/mrxclay666777/speakyz/storage/database/inmem"
	boiledrepos "github.com/mrxclay666777/speakyz/storage/database/sqlboiler"
	sqlxrepos "github.com/mrxclay666777/speakyz/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up logger
	zl, err := logsvc.NewZap(conf)
	if err != nil {
		log.Fatalf("setting up zap: %v", err)
	}
	logger := logsvc.NewRollbarLogger(zl.Named("api"), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	defer func() { _ = logger.Sync() }()

	// set up storage
	prefRepo, inqRepo, closeDB, err := setUpStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer closeDB()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	metrics := metricsvc.New()
	notifier := notifysvc.Multi{metrics}
	if conf.NatsURL != "" {
		nn, err := notifysvc.NewNatsNotifier(conf.NatsURL, conf.AppName+" API", logger)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up nats: %v", err), err)
		}
		defer nn.Close()
		notifier = append(notifier, nn)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	uni := core.NewUniversalTranslator()
	validate := validator.New()
	core.InitValidators(validate, uni)

	core.ParseEmailTemplates(conf, logger)

	locales := locale.SiteCatalog
	bundled, err := locale.LoadTables(appfs.FS, "locales")
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading translation tables: %v", err), err)
	}
	if report := locale.Audit(locales, bundled); !report.OK() {
		logger.Warn("translation audit\n" + report.String())
	}
	tables := locale.NewTables(locales.Default().Code, bundled)

	listings, err := catalog.Load(appfs.FS, "data/catalog.yaml")
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading catalog: %v", err), err)
	}

	visitors, err := visitor.NewRegistry(visitor.Options{
		Repo:      prefRepo,
		Catalog:   locales,
		Tables:    tables,
		Numbers:   locale.NewNumberFormatter(uni),
		Logger:    logger,
		Conf:      conf.Preferences,
		OnSession: []func(*visitor.Session){metrics.ObserveSession},
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up visitors: %v", err), err)
	}

	inquirySvc := inquiry.NewService(conf, inquiry.Deps{
		Repo:     inqRepo,
		Mailer:   mailSvc,
		Notifier: notifier,
		Validate: validate,
		Logger:   logger,
	})

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := echoapi.NewServer(&echoapi.Options{
		Conf:           conf,
		Logger:         logger,
		SignalShutdown: stop,
		Validate:       validate,
		Translator:     uni,
		Visitors:       visitors,
		Locales:        locales,
		Tables:         tables,
		Listings:       listings,
		InquirySvc:     inquirySvc,
		Metrics:        metrics.Handler(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error { return visitors.Run(gctx) })
	if conf.I18n.WatchDir != "" {
		watcher, err := i18nwatch.New(conf.I18n.WatchDir, locales, tables, logger)
		if err != nil {
			logger.Fatal(fmt.Sprintf("watching translations: %v", err), err)
		}
		if err := watcher.Reload(); err != nil {
			logger.Error(fmt.Sprintf("loading translations from %s: %v", conf.I18n.WatchDir, err), err)
		}
		g.Go(func() error { return watcher.Run(gctx) })
	}

	// =========================================================================
	// Shutdown

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Start shutdown...")

		// give outstanding requests a deadline for completion
		sctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Stop(sctx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("server error: %v", err), err)
	}
}

func setUpStorage(conf *core.Config) (visitor.PreferenceRepository, inquiry.Repository, func(), error) {
	if conf.Database.Engine == database.EngineMemory {
		db := inmemdb.NewDB()
		return inmemdb.NewPreferenceRepository(db), inmemdb.NewInquiryRepository(db), func() {}, nil
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, nil, nil, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(db.DB, conf.Database.Engine); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Printf("closing database: %v", err)
		}
	}
	return sqlxrepos.NewPreferenceRepository(db), boiledrepos.NewInquiryRepository(db, db.DriverName()), closeDB, nil
}
