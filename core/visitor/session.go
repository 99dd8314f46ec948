// Package visitor scopes the preference stores to one site visitor: each visitor, identified by a
// cookie, gets a session owning a theme store, a locale store & the document they present to.
package visitor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/locale"
	"github.com/mrxclay666777/speakyz/core/prefs"
	"github.com/mrxclay666777/speakyz/core/theme"
)

var NowFunc = time.Now // mockable

type Session struct {
	ID       string
	Theme    *theme.Store
	Locale   *locale.Store
	Document *Document

	backend  prefs.Backend
	logger   core.Logger
	lastSeen atomic.Int64 // unix nanos
	holds    atomic.Int32

	envMu      sync.Mutex
	lastSystem theme.Mode

	closeOnce sync.Once
	cleanups  []func()
}

// Actor identifies the visitor in logs.
func (s *Session) Actor() core.Actor {
	return core.Actor{ID: s.ID, Username: "visitor"}
}

func (s *Session) touch() { s.lastSeen.Store(NowFunc().UnixNano()) }

func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Hold keeps the session from being evicted until release is called, e.g. while a long-lived
// connection is subscribed to its stores. Releasing counts as activity. release is idempotent.
func (s *Session) Hold() (release func()) {
	s.holds.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.touch()
			s.holds.Add(-1)
		})
	}
}

func (s *Session) held() bool { return s.holds.Load() > 0 }

// ObserveEnv forwards a change of the browser's color scheme hint to the theme store.
// The first hint seen is the one the session was initialized with.
func (s *Session) ObserveEnv(env Env) {
	if !env.ColorScheme.Valid() {
		return
	}

	s.envMu.Lock()
	changed := s.lastSystem != env.ColorScheme
	s.lastSystem = env.ColorScheme
	s.envMu.Unlock()

	if changed {
		s.Theme.OnSystemPreferenceChanged(env.ColorScheme)
	}
}

// OnClose registers fn to run when the session is evicted.
func (s *Session) OnClose(fn func()) {
	s.cleanups = append(s.cleanups, fn)
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		for i := len(s.cleanups) - 1; i >= 0; i-- {
			s.cleanups[i]()
		}
	})
}
