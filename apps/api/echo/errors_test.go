package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/inquiry"
)

// goneRepo fails like a repository whose database was closed.
type goneRepo struct {
	err error
}

func (r goneRepo) CreateInquiry(context.Context, inquiry.Inquiry) (inquiry.Inquiry, error) {
	return inquiry.Inquiry{}, r.err
}

func (r goneRepo) QueryInquiries(context.Context, inquiry.QueryFilter) ([]inquiry.Inquiry, error) {
	return nil, r.err
}

func TestErrorHandler_ShutdownSignal(t *testing.T) {
	body := marshalObj(t, inquiry.NewInquiry{
		Name:             "Ada",
		Email:            "ada@example.com",
		Subject:          "Hello",
		Message:          "Hi there",
		PreferredContact: "email",
	})

	tests := []struct {
		name         string
		repoErr      error
		wantShutdown bool
	}{
		{name: "other storage failure", repoErr: core.StorageError(context.Canceled), wantShutdown: false},
		{name: "database closed", repoErr: core.NewShutdownError("sql: database is closed"), wantShutdown: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			signaled := 0
			app := setupWith(t, testDeps{
				inquiries:      goneRepo{err: tc.repoErr},
				signalShutdown: func() { signaled++ },
			})

			req, _ := newRequest(http.MethodPost, "/api/contact", body)
			rec, _ := app.visit(t, "", req)
			require.Equal(t, http.StatusInternalServerError, rec.Code)
			checkCodeAndData(t, httpTest{
				wantCode: http.StatusInternalServerError,
				wantData: marshalObj(t, httpErr{Error: http.StatusText(http.StatusInternalServerError)}),
			}, rec)
			assert.Equal(t, tc.wantShutdown, signaled == 1)
		})
	}
}
