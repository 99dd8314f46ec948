package visitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/locale"
	"github.com/mrxclay666777/speakyz/core/theme"
)

type Options struct {
	Repo    PreferenceRepository
	Catalog *locale.Catalog
	Tables  *locale.Tables
	Numbers *locale.NumberFormatter
	Logger  core.Logger
	Conf    core.PreferencesConfig
	Sleep   func(time.Duration) // time.Sleep when nil

	// OnSession runs once for every new session, before it is handed out.
	// Use Session.OnClose to undo what it set up.
	OnSession []func(*Session)
}

// Registry holds the live visitor sessions.
type Registry struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session
	creating singleflight.Group
}

func NewRegistry(opts Options) (*Registry, error) {
	if err := vala.BeginValidation().Validate(
		core.IsSet(opts.Repo, "Repo"),
		vala.IsNotNil(opts.Catalog, "Catalog"),
		vala.IsNotNil(opts.Tables, "Tables"),
		core.IsSet(opts.Logger, "Logger"),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "visitor.NewRegistry")
	}
	return &Registry{opts: opts, sessions: make(map[string]*Session)}, nil
}

// Session returns the live session of visitor id, creating & initializing it from its persisted
// preferences and env when there is none. Creation reads the repository outside the registry lock;
// concurrent first requests of the same visitor share one creation.
func (r *Registry) Session(id string, env Env) (*Session, error) {
	if sess, ok := r.Lookup(id); ok {
		sess.touch()
		return sess, nil
	}

	v, err, _ := r.creating.Do(id, func() (interface{}, error) {
		if sess, ok := r.Lookup(id); ok {
			return sess, nil
		}
		sess, err := r.newSession(id, env)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.sessions[id] = sess
		r.mu.Unlock()
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	sess := v.(*Session)
	sess.touch()
	return sess, nil
}

func (r *Registry) newSession(id string, env Env) (*Session, error) {
	backend := NewScopedBackend(r.opts.Repo, id, r.opts.Conf.StoreTimeout)
	doc := &Document{}

	themeStore, err := theme.NewStore(theme.Options{
		Backend:     backend,
		Presenter:   doc,
		Logger:      r.opts.Logger,
		SettleDelay: r.opts.Conf.ThemeSettleDelay,
		Sleep:       r.opts.Sleep,
	})
	if err != nil {
		return nil, err
	}
	localeStore, err := locale.NewStore(locale.Options{
		Catalog:        r.opts.Catalog,
		Tables:         r.opts.Tables,
		Backend:        backend,
		Logger:         r.opts.Logger,
		Numbers:        r.opts.Numbers,
		PreCommitDelay: r.opts.Conf.LocalePreCommitDelay,
		SettleDelay:    r.opts.Conf.LocaleSettleDelay,
		Sleep:          r.opts.Sleep,
	})
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:         id,
		Theme:      themeStore,
		Locale:     localeStore,
		Document:   doc,
		backend:    backend,
		logger:     r.opts.Logger,
		lastSystem: env.ColorScheme,
	}
	sess.touch()

	// the document follows the locale
	sess.OnClose(localeStore.Subscribe(func(s locale.State) { doc.SetLang(s.Locale.Code) }))

	themeStore.Initialize(env.ColorScheme)
	localeStore.Initialize(env.Language)

	for _, fn := range r.opts.OnSession {
		fn(sess)
	}
	r.opts.Logger.Debug(fmt.Sprintf("visitor: session started (%s, %s)", themeStore.Current(), localeStore.Current().Code), sess.Actor())
	return sess, nil
}

// Lookup returns the live session of id, if any.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Evict drops the sessions idle since before `before` and returns how many were dropped.
// Held sessions are kept. Their preferences stay persisted.
func (r *Registry) Evict(before time.Time) int {
	r.mu.Lock()
	var idle []*Session
	for id, sess := range r.sessions {
		if !sess.held() && sess.LastSeen().Before(before) {
			idle = append(idle, sess)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, sess := range idle {
		sess.close()
	}
	return len(idle)
}

// Run evicts idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	ttl := r.opts.Conf.VisitorIdleTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Evict(NowFunc().Add(-ttl)); n > 0 {
				r.opts.Logger.Debug(fmt.Sprintf("visitor: evicted %d idle sessions", n))
			}
		}
	}
}

// Stats is a breakdown of the live sessions.
type Stats struct {
	Active   int            `json:"active"`
	Stored   int            `json:"stored"`
	ByTheme  map[string]int `json:"by_theme"`
	ByLocale map[string]int `json:"by_locale"`
}

func (r *Registry) Stats(ctx context.Context) (Stats, error) {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sessions = append(sessions, sess)
	}
	r.mu.Unlock()

	stats := Stats{
		Active:   len(sessions),
		ByTheme:  make(map[string]int),
		ByLocale: make(map[string]int),
	}
	for _, sess := range sessions {
		stats.ByTheme[string(sess.Theme.Current())]++
		stats.ByLocale[sess.Locale.Current().Code]++
	}

	stored, err := r.opts.Repo.CountVisitors(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "counting visitors")
	}
	stats.Stored = stored
	return stats, nil
}
