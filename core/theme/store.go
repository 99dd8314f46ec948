package theme

import (
	"fmt"
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/prefs"
)

const DefaultSettleDelay = 150 * time.Millisecond

type Options struct {
	Backend     prefs.Backend
	Presenter   Presenter
	Logger      core.Logger
	SettleDelay time.Duration       // DefaultSettleDelay when zero
	Sleep       func(time.Duration) // time.Sleep when nil
}

// Store owns one visitor's theme. Mutators are serialized: a call made while another one is in
// flight waits for it to finish. Reads never wait on a mutator's delays.
type Store struct {
	backend     prefs.Backend
	presenter   Presenter
	logger      core.Logger
	settleDelay time.Duration
	sleep       func(time.Duration)

	initOnce  sync.Once
	mutateMu  sync.Mutex
	stateMu   sync.RWMutex
	state     State
	observers prefs.Observers[State]
}

func NewStore(opts Options) (*Store, error) {
	if err := vala.BeginValidation().Validate(
		core.IsSet(opts.Backend, "Backend"),
		core.IsSet(opts.Presenter, "Presenter"),
		core.IsSet(opts.Logger, "Logger"),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "theme.NewStore")
	}

	s := &Store{
		backend:     opts.Backend,
		presenter:   opts.Presenter,
		logger:      opts.Logger,
		settleDelay: opts.SettleDelay,
		sleep:       opts.Sleep,
		state:       State{Mode: Light, Source: prefs.SystemDefault},
	}
	if s.settleDelay <= 0 {
		s.settleDelay = DefaultSettleDelay
	}
	if s.sleep == nil {
		s.sleep = time.Sleep
	}
	return s, nil
}

// Initialize resolves the starting mode: persisted value, else the system signal, else light.
// Only the first call has an effect. system may be "" when the environment gave no signal.
func (s *Store) Initialize(system Mode) {
	s.initOnce.Do(func() {
		s.mutateMu.Lock()
		defer s.mutateMu.Unlock()

		mode, src := s.resolve(system)
		s.commit(mode, src)
	})
}

func (s *Store) resolve(system Mode) (Mode, prefs.Source) {
	raw, ok, err := s.backend.Get(prefs.ThemeKey)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("theme.Initialize: reading %s: %v", prefs.ThemeKey, err), err)
	}
	if mode, valid := ParseMode(raw); ok && valid {
		src := prefs.PersistedFallback
		rawSrc, ok, err := s.backend.Get(prefs.ThemeSourceKey)
		if err != nil {
			s.logger.Warn(fmt.Sprintf("theme.Initialize: reading %s: %v", prefs.ThemeSourceKey, err), err)
		}
		if ok && rawSrc == prefs.UserExplicit.String() {
			src = prefs.UserExplicit
		}
		return mode, src
	} else if ok {
		s.logger.Debug(fmt.Sprintf("theme.Initialize: ignoring invalid persisted theme %q", raw))
	}

	if system.Valid() {
		return system, prefs.SystemDefault
	}
	return Light, prefs.SystemDefault
}

// Toggle flips light/dark as an explicit user choice: mark transitioning, persist, apply,
// then clear the flag once the settle delay elapsed.
func (s *Store) Toggle() State {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	s.setTransitioning(true)

	next := s.Current().Toggle()
	s.persist(next)
	s.commit(next, prefs.UserExplicit)

	s.sleep(s.settleDelay)
	s.setTransitioning(false)
	return s.State()
}

// OnSystemPreferenceChanged adopts the new system mode unless the user chose one explicitly.
// It reports whether the mode was adopted.
func (s *Store) OnSystemPreferenceChanged(mode Mode) bool {
	if !mode.Valid() {
		return false
	}

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	cur := s.State()
	if cur.Source == prefs.UserExplicit || cur.Mode == mode {
		return false
	}
	s.commit(mode, prefs.SystemDefault)
	return true
}

// write failures are logged only: the theme is cosmetic and must still change in memory
func (s *Store) persist(mode Mode) {
	if err := s.backend.Set(prefs.ThemeKey, string(mode)); err != nil {
		s.logger.Error(fmt.Sprintf("theme.persist: writing %s: %v", prefs.ThemeKey, err), err)
		return
	}
	if err := s.backend.Set(prefs.ThemeSourceKey, prefs.UserExplicit.String()); err != nil {
		s.logger.Error(fmt.Sprintf("theme.persist: writing %s: %v", prefs.ThemeSourceKey, err), err)
	}
}

func (s *Store) commit(mode Mode, src prefs.Source) {
	s.presenter.ApplyTheme(mode)

	s.stateMu.Lock()
	s.state.Mode = mode
	s.state.Source = src
	state := s.state
	s.stateMu.Unlock()

	s.observers.Notify(state, s.logger)
}

func (s *Store) setTransitioning(on bool) {
	s.stateMu.Lock()
	s.state.Transitioning = on
	state := s.state
	s.stateMu.Unlock()

	s.observers.Notify(state, s.logger)
}

func (s *Store) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Store) Current() Mode         { return s.State().Mode }
func (s *Store) Source() prefs.Source  { return s.State().Source }
func (s *Store) IsTransitioning() bool { return s.State().Transitioning }

// Subscribe registers fn to receive the state after every committed change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.observers.Subscribe(fn)
}
