package echoapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/mrxclay666777/speakyz/apps/api/echo"
	"github.com/mrxclay666777/speakyz/core/catalog"
	"github.com/mrxclay666777/speakyz/core/inquiry"
	"github.com/mrxclay666777/speakyz/core/visitor"
)

func TestConsent(t *testing.T) {
	app := setup(t)
	_, cookie := getPreferences(t, app, "", nil)

	tests := []httpTest{
		{
			name:     "undecided",
			method:   http.MethodGet,
			path:     "/api/consent",
			wantCode: http.StatusOK,
			wantData: []byte(`{"necessary": true, "analytics": false, "marketing": false, "functional": false, "decided": false}`),
		},
		{
			name:     "accept all",
			method:   http.MethodPost,
			path:     "/api/consent/accept-all",
			wantCode: http.StatusOK,
			wantData: []byte(`{"necessary": true, "analytics": true, "marketing": true, "functional": true, "decided": true}`),
		},
		{
			name:     "necessary cannot be refused",
			method:   http.MethodPut,
			path:     "/api/consent",
			body:     []byte(`{"necessary": false, "analytics": true}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"necessary": true, "analytics": true, "marketing": false, "functional": false, "decided": true}`),
		},
		{
			name:     "reject",
			method:   http.MethodPost,
			path:     "/api/consent/reject",
			wantCode: http.StatusOK,
			wantData: []byte(`{"necessary": true, "analytics": false, "marketing": false, "functional": false, "decided": true}`),
		},
		{
			name:     "kept",
			method:   http.MethodGet,
			path:     "/api/consent",
			wantCode: http.StatusOK,
			wantData: []byte(`{"necessary": true, "analytics": false, "marketing": false, "functional": false, "decided": true}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := newRequest(tt.method, tt.path, tt.body)
			rec, _ := app.visit(t, cookie, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestListings_Courses(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantIDs  []int
	}{
		{name: "all, most popular first", query: "", wantCode: http.StatusOK, wantIDs: []int{6, 3, 1, 4, 2, 5}},
		{name: "level & price", query: "?level=intermediate&sort=price-low", wantCode: http.StatusOK, wantIDs: []int{4, 2, 3}},
		{name: "no match", query: "?search=klingon", wantCode: http.StatusOK, wantIDs: []int{}},
		{name: "bad sort", query: "?sort=cheapest", wantCode: http.StatusBadRequest},
		{name: "bad level", query: "?level=expert", wantCode: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := newRequest(http.MethodGet, "/api/courses"+tc.query)
			rec, _ := app.visit(t, "", req)
			require.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
			if tc.wantCode != http.StatusOK {
				return
			}

			var courses []catalog.Course
			unmarshal(t, rec, &courses)
			ids := make([]int, 0, len(courses))
			for _, c := range courses {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestListings_Teachers(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantIDs  []int
	}{
		{name: "price range", query: "?price=45%2B", wantCode: http.StatusOK, wantIDs: []int{5}},
		{name: "country", query: "?country=Canada", wantCode: http.StatusOK, wantIDs: []int{2}},
		{name: "cheapest first", query: "?price=25-35&sort=price-low", wantCode: http.StatusOK, wantIDs: []int{4, 6, 1}},
		{name: "bad price", query: "?price=cheap", wantCode: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := newRequest(http.MethodGet, "/api/teachers"+tc.query)
			rec, _ := app.visit(t, "", req)
			require.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
			if tc.wantCode != http.StatusOK {
				return
			}

			var teachers []catalog.Teacher
			unmarshal(t, rec, &teachers)
			ids := make([]int, 0, len(teachers))
			for _, th := range teachers {
				ids = append(ids, th.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}

	t.Run("specialties", func(t *testing.T) {
		req, _ := newRequest(http.MethodGet, "/api/teachers/specialties")
		rec, _ := app.visit(t, "", req)
		require.Equal(t, http.StatusOK, rec.Code)

		var specialties []string
		unmarshal(t, rec, &specialties)
		assert.NotEmpty(t, specialties)
	})
}

func TestListings_Schedule(t *testing.T) {
	orig := NowFunc
	NowFunc = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	defer func() { NowFunc = orig }()

	app := setup(t)

	req, _ := newRequest(http.MethodGet, "/api/schedule")
	rec, _ := app.visit(t, "", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var days []catalog.Day
	unmarshal(t, rec, &days)
	require.Len(t, days, catalog.ScheduleDays)
	assert.Equal(t, "2025-03-10", days[0].Date)

	t.Run("filtered", func(t *testing.T) {
		req, _ := newRequest(http.MethodGet, "/api/schedule?format=online&type=workshop")
		rec, _ := app.visit(t, "", req)
		require.Equal(t, http.StatusOK, rec.Code)

		var days []catalog.Day
		unmarshal(t, rec, &days)
		for _, day := range days {
			for _, sess := range day.Sessions {
				assert.Equal(t, catalog.FormatOnline, sess.Format)
				assert.Equal(t, catalog.TypeWorkshop, sess.Type)
			}
		}
	})

	t.Run("bad filter", func(t *testing.T) {
		req, _ := newRequest(http.MethodGet, "/api/schedule?format=hybrid")
		rec, _ := app.visit(t, "", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestContact(t *testing.T) {
	valid := inquiry.NewInquiry{
		Name:             "Ada Lovelace",
		Email:            "Ada@Example.com",
		Subject:          "Business English",
		Message:          "I would like to improve my presentations.",
		PreferredContact: "email",
		Interests:        []string{"Business English"},
	}

	t.Run("options", func(t *testing.T) {
		app := setup(t)
		req, _ := newRequest(http.MethodGet, "/api/contact/options")
		rec, _ := app.visit(t, "", req)
		require.Equal(t, http.StatusOK, rec.Code)

		var opts ContactOptions
		unmarshal(t, rec, &opts)
		assert.Equal(t, inquiry.InterestOptions, opts.Interests)
	})

	t.Run("submitted in russian", func(t *testing.T) {
		app := setup(t)
		req, _ := newRequest(http.MethodPost, "/api/contact", marshalObj(t, valid))
		req.Header.Set("Accept-Language", "ru")
		rec, _ := app.visit(t, "", req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var res ContactResponse
		unmarshal(t, rec, &res)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "Спасибо! Мы свяжемся с вами в течение 24 часов.", res.Message)

		sent := app.mailer.Sent()
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].Subject, "Business English")
	})

	t.Run("invalid in french", func(t *testing.T) {
		app := setup(t)
		bad := valid
		bad.Name = "   "
		req, _ := newRequest(http.MethodPost, "/api/contact", marshalObj(t, bad))
		req.Header.Set("Accept-Language", "fr-FR")
		rec, _ := app.visit(t, "", req)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var fields map[string]string
		unmarshal(t, rec, &fields)
		assert.Equal(t, "ce champ ne peut pas être vide", fields["name"])
		assert.Empty(t, app.mailer.Sent())
	})

	t.Run("unknown interest", func(t *testing.T) {
		app := setup(t)
		bad := valid
		bad.Interests = []string{"Klingon"}
		req, _ := newRequest(http.MethodPost, "/api/contact", marshalObj(t, bad))
		rec, _ := app.visit(t, "", req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "interests")
	})
}

func adminLogin(t *testing.T, app *testApp) string {
	t.Helper()
	req, rec := newRequest(http.MethodPost, "/api/admin/login", []byte(`{"username": "admin", "password": "`+adminPassword+`"}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res LoginResponse
	unmarshal(t, rec, &res)
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestAdmin_Login(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "missing fields",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"username": "this field is required", "password": "this field is required"}`),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"username": "admin", "password": "nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "unknown user",
			body:     []byte(`{"username": "root", "password": "` + adminPassword + `"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "authentication failed"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/admin/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("success", func(t *testing.T) {
		adminLogin(t, app)
	})
}

func TestAdmin_Endpoints(t *testing.T) {
	app := setup(t)

	// a russian visitor in dark mode leaves an inquiry
	req, _ := newRequest(http.MethodPost, "/api/contact", marshalObj(t, inquiry.NewInquiry{
		Name:             "Ivan",
		Email:            "ivan@example.com",
		Subject:          "IELTS",
		Message:          "When does the next group start?",
		PreferredContact: "telegram",
	}))
	req.Header.Set("Accept-Language", "ru")
	req.Header.Set("Sec-CH-Prefers-Color-Scheme", "dark")
	rec, _ := app.visit(t, "", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	token := adminLogin(t, app)
	authed := func(path string) *http.Request {
		req, _ := newRequest(http.MethodGet, path)
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	t.Run("not authenticated", func(t *testing.T) {
		for _, path := range []string{"/api/admin/inquiries", "/api/admin/visitors", "/api/admin/i18n/audit"} {
			req, rec := newRequest(http.MethodGet, path)
			app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		}
	})

	t.Run("bad token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/admin/inquiries")
		req.Header.Set("Authorization", "Bearer not.a.token")
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("inquiries", func(t *testing.T) {
		rec := httpRecord(app, authed("/api/admin/inquiries?search=ielts"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var inqs []inquiry.Inquiry
		unmarshal(t, rec, &inqs)
		require.Len(t, inqs, 1)
		assert.Equal(t, "ru", inqs[0].Locale)
		assert.Equal(t, "beginner", inqs[0].EnglishLevel)

		rec = httpRecord(app, authed("/api/admin/inquiries?search=nobody"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("inquiries bad query", func(t *testing.T) {
		rec := httpRecord(app, authed("/api/admin/inquiries?since=yesterday"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("visitors", func(t *testing.T) {
		rec := httpRecord(app, authed("/api/admin/visitors"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var stats visitor.Stats
		unmarshal(t, rec, &stats)
		assert.Equal(t, 1, stats.Active)
		assert.Equal(t, 1, stats.ByTheme["dark"])
		assert.Equal(t, 1, stats.ByLocale["ru"])
	})

	t.Run("i18n audit", func(t *testing.T) {
		rec := httpRecord(app, authed("/api/admin/i18n/audit"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var report map[string]json.RawMessage
		unmarshal(t, rec, &report)
		assert.Contains(t, report, "issues")
	})
}

func httpRecord(app *testApp, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestHomePage(t *testing.T) {
	app := setup(t)

	req, _ := newRequest(http.MethodGet, "/")
	req.Header.Set("Accept-Language", "ru-RU")
	req.Header.Set("Sec-CH-Prefers-Color-Scheme", "dark")
	rec, cookie := app.visit(t, "", req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, cookie)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))

	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="ru" class="dark">`)
	assert.Contains(t, body, "Главная")
	assert.Equal(t, "Sec-CH-Prefers-Color-Scheme", rec.Header().Get("Accept-CH"))
}

func TestMetrics(t *testing.T) {
	app := setup(t)
	_, _ = getPreferences(t, app, "", nil)

	req, rec := newRequest(http.MethodGet, "/metrics")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "speakyz_visitor_sessions_active")
}
