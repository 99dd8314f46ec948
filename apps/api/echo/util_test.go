package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	. "github.com/mrxclay666777/speakyz/apps/api/echo"
	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/catalog"
	"github.com/mrxclay666777/speakyz/core/inquiry"
	"github.com/mrxclay666777/speakyz/core/locale"
	"github.com/mrxclay666777/speakyz/core/visitor"
	appfs "github.com/mrxclay666777/speakyz/fs"
	emailsvc "github.com/mrxclay666777/speakyz/services/email"
	metricsvc "github.com/mrxclay666777/speakyz/services/metrics"
	inmemdb "github.com/mrxclay666777/speakyz/storage/database/inmem"
	testutil "github.com/mrxclay666777/speakyz/tests"
)

const (
	cookieName    = "speakyz-visitor"
	adminPassword = "s3cret!"
)

type testApp struct {
	Server
	conf     *core.Config
	visitors *visitor.Registry
	prefs    visitor.PreferenceRepository
	mailer   *emailsvc.ConsoleServiceMock
}

// testDeps overrides the collaborators setup builds by default.
type testDeps struct {
	inquiries      inquiry.Repository
	signalShutdown func()
}

func setup(t *testing.T) *testApp {
	t.Helper()
	return setupWith(t, testDeps{})
}

func setupWith(t *testing.T, deps testDeps) *testApp {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	conf := &core.Config{
		AppName:          "Speakyz",
		TestMode:         true,
		SecretKey:        "test-secret",
		DefaultFromEmail: mail.Address{Name: "Speakyz", Address: "noreply@speakyz.test"},
		StaffEmail:       mail.Address{Name: "Speakyz Team", Address: "hello@speakyz.test"},
		Server: core.ServerConfig{
			DisableReqLogs:     true,
			JWTExpirationDelta: time.Hour,
		},
		Preferences: core.PreferencesConfig{
			VisitorIdleTTL: time.Hour,
			StoreTimeout:   time.Second,
			CookieName:     cookieName,
		},
		Admin: core.AdminConfig{Username: "admin", PasswordHash: string(hash)},
	}
	logger := testutil.NopLogger{}
	core.ParseEmailTemplates(conf, logger)

	uni := core.NewUniversalTranslator()
	validate := validator.New()
	core.InitValidators(validate, uni)

	bundled, err := locale.LoadTables(appfs.FS, "locales")
	require.NoError(t, err)
	tables := locale.NewTables("en", bundled)
	listings, err := catalog.Load(appfs.FS, "data/catalog.yaml")
	require.NoError(t, err)

	db := inmemdb.NewDB()
	prefRepo := inmemdb.NewPreferenceRepository(db)
	metrics := metricsvc.New()

	visitors, err := visitor.NewRegistry(visitor.Options{
		Repo:      prefRepo,
		Catalog:   locale.SiteCatalog,
		Tables:    tables,
		Numbers:   locale.NewNumberFormatter(uni),
		Logger:    logger,
		Conf:      conf.Preferences,
		Sleep:     func(time.Duration) {},
		OnSession: []func(*visitor.Session){metrics.ObserveSession},
	})
	require.NoError(t, err)

	if deps.inquiries == nil {
		deps.inquiries = inmemdb.NewInquiryRepository(db)
	}
	mailer := emailsvc.NewConsoleServiceMock(conf, logger)
	inquirySvc := inquiry.NewService(conf, inquiry.Deps{
		Repo:     deps.inquiries,
		Mailer:   mailer,
		Notifier: metrics,
		Validate: validate,
		Logger:   logger,
	})

	return &testApp{
		Server: NewServer(&Options{
			Conf:           conf,
			Logger:         logger,
			SignalShutdown: deps.signalShutdown,
			Validate:       validate,
			Translator:     uni,
			Visitors:       visitors,
			Locales:        locale.SiteCatalog,
			Tables:         tables,
			Listings:       listings,
			InquirySvc:     inquirySvc,
			Metrics:        metrics.Handler(),
		}),
		conf:     conf,
		visitors: visitors,
		prefs:    prefRepo,
		mailer:   mailer,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	headers  map[string]string
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

// visit sends a request as the visitor holding cookie (a new visitor when empty) and returns
// the response with the visitor's cookie value.
func (app *testApp) visit(t *testing.T, cookie string, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			cookie = c.Value
		}
	}
	return rec, cookie
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into), rec.Body.String())
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
