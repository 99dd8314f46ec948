package inquiry_test

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/inquiry"
	emailsvc "github.com/mrxclay666777/speakyz/services/email"
	inmemdb "github.com/mrxclay666777/speakyz/storage/database/inmem"
	testutil "github.com/mrxclay666777/speakyz/tests"
)

type notifierMock struct {
	mu   sync.Mutex
	err  error
	seen []inquiry.Inquiry
}

func (n *notifierMock) InquiryReceived(_ context.Context, inq inquiry.Inquiry) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, inq)
	return n.err
}

type fixture struct {
	svc      *inquiry.Service
	mailer   *emailsvc.ConsoleServiceMock
	notifier *notifierMock
	logger   *testutil.RecordingLogger
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conf := &core.Config{
		AppName:          "Speakyz",
		TestMode:         true,
		DefaultFromEmail: mail.Address{Name: "Speakyz", Address: "noreply@speakyz.test"},
		StaffEmail:       mail.Address{Name: "Speakyz Team", Address: "hello@speakyz.test"},
	}
	logger := new(testutil.RecordingLogger)
	core.ParseEmailTemplates(conf, logger)

	validate := validator.New()
	core.InitValidators(validate, core.NewUniversalTranslator())

	f := fixture{
		mailer:   emailsvc.NewConsoleServiceMock(conf, logger),
		notifier: new(notifierMock),
		logger:   logger,
	}
	f.svc = inquiry.NewService(conf, inquiry.Deps{
		Repo:     inmemdb.NewInquiryRepository(inmemdb.NewDB()),
		Mailer:   f.mailer,
		Notifier: f.notifier,
		Validate: validate,
		Logger:   logger,
	})
	return f
}

func validInquiry() inquiry.NewInquiry {
	return inquiry.NewInquiry{
		Name:             "  Ana Lima ",
		Email:            "Ana@Example.com ",
		Phone:            "+55 11 91234-5678",
		Subject:          "Business English",
		Message:          "I would like to join a group class.",
		PreferredContact: "email",
		Interests:        []string{"Business English", "Pronunciation"},
		Newsletter:       true,
	}
}

func TestService_Submit(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	inquiry.NowFunc = func() time.Time { return now }
	defer func() { inquiry.NowFunc = time.Now }()

	f := newFixture(t)
	ctx := context.Background()

	inq, err := f.svc.Submit(ctx, "visitor-1", "pt", validInquiry())
	require.NoError(t, err)

	assert.NotEmpty(t, inq.ID)
	assert.Equal(t, "visitor-1", inq.VisitorID)
	assert.Equal(t, "pt", inq.Locale)
	assert.Equal(t, "Ana Lima", inq.Name)
	assert.Equal(t, "ana@example.com", inq.Email)
	assert.Equal(t, "beginner", inq.EnglishLevel)
	assert.Equal(t, now, inq.CreatedAt)

	stored, err := f.svc.Query(ctx, inquiry.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, inq.ID, stored[0].ID)

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "hello@speakyz.test", sent[0].To[0].Address)
	assert.Equal(t, "ana@example.com", sent[0].ReplyTo.Address)
	assert.True(t, strings.Contains(sent[0].TextContent, "Business English, Pronunciation"))
	assert.True(t, strings.Contains(sent[0].TextContent, "2025-06-01 12:00 UTC"))

	require.Len(t, f.notifier.seen, 1)
	assert.Equal(t, inq.ID, f.notifier.seen[0].ID)
}

func TestService_SubmitInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(ni *inquiry.NewInquiry)
		field  string
	}{
		{name: "blank name", modify: func(ni *inquiry.NewInquiry) { ni.Name = "   " }, field: "name"},
		{name: "bad email", modify: func(ni *inquiry.NewInquiry) { ni.Email = "ana" }, field: "email"},
		{name: "bad phone", modify: func(ni *inquiry.NewInquiry) { ni.Phone = "call me" }, field: "phone"},
		{name: "bad contact", modify: func(ni *inquiry.NewInquiry) { ni.PreferredContact = "fax" }, field: "preferred_contact"},
		{name: "bad level", modify: func(ni *inquiry.NewInquiry) { ni.EnglishLevel = "expert" }, field: "english_level"},
		{name: "no message", modify: func(ni *inquiry.NewInquiry) { ni.Message = "" }, field: "message"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ni := validInquiry()
			tc.modify(&ni)

			_, err := f.svc.Submit(context.Background(), "visitor-1", "en", ni)
			require.Error(t, err)
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs))
			assert.Equal(t, tc.field, vErrs[0].Field())
			assert.Empty(t, f.mailer.Sent())
		})
	}

	t.Run("unknown interest", func(t *testing.T) {
		f := newFixture(t)
		ni := validInquiry()
		ni.Interests = []string{"Klingon"}

		_, err := f.svc.Submit(context.Background(), "visitor-1", "en", ni)
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, inquiry.ErrInvalidInterest, vErr.Err)
		assert.Equal(t, "interests", vErr.Fields[0].Field)
	})
}

func TestService_SubmitNotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("bus down")

	inq, err := f.svc.Submit(context.Background(), "visitor-1", "en", validInquiry())
	require.NoError(t, err)
	assert.NotEmpty(t, inq.ID)
	assert.Contains(t, f.logger.Messages(), "error: inquiry.Submit: notifying: bus down")
}

func TestService_Query(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	defer func() { inquiry.NowFunc = time.Now }()
	for i, name := range []string{"Ana", "Bruno", "Carla"} {
		inquiry.NowFunc = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		ni := validInquiry()
		ni.Name = name
		_, err := f.svc.Submit(ctx, "", "en", ni)
		require.NoError(t, err)
	}

	names := func(inqs []inquiry.Inquiry) []string {
		var out []string
		for _, inq := range inqs {
			out = append(out, inq.Name)
		}
		return out
	}

	tests := []struct {
		name   string
		filter inquiry.QueryFilter
		want   []string
	}{
		{name: "newest first", want: []string{"Carla", "Bruno", "Ana"}},
		{name: "search", filter: inquiry.QueryFilter{Search: " BRUNO "}, want: []string{"Bruno"}},
		{name: "since", filter: inquiry.QueryFilter{Since: base.Add(30 * time.Minute)}, want: []string{"Carla", "Bruno"}},
		{name: "limit", filter: inquiry.QueryFilter{Limit: 1}, want: []string{"Carla"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inqs, err := f.svc.Query(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(inqs))
		})
	}
}
