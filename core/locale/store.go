package locale

import (
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/prefs"
)

const (
	DefaultPreCommitDelay = 200 * time.Millisecond
	DefaultSettleDelay    = 300 * time.Millisecond
)

// State is the snapshot handed to readers & subscribers.
type State struct {
	Locale   Entry `json:"locale"`
	Changing bool  `json:"locale_changing"`
}

type Options struct {
	Catalog        *Catalog
	Tables         *Tables
	Backend        prefs.Backend
	Logger         core.Logger
	Numbers        *NumberFormatter    // optional
	PreCommitDelay time.Duration       // DefaultPreCommitDelay when zero
	SettleDelay    time.Duration       // DefaultSettleDelay when zero
	Sleep          func(time.Duration) // time.Sleep when nil
}

// Store owns one visitor's locale. Mutators are serialized: a change requested while another one
// is in flight waits for it, then is evaluated against the locale it committed.
type Store struct {
	catalog        *Catalog
	tables         *Tables
	backend        prefs.Backend
	logger         core.Logger
	numbers        *NumberFormatter
	preCommitDelay time.Duration
	settleDelay    time.Duration
	sleep          func(time.Duration)

	initOnce  sync.Once
	mutateMu  sync.Mutex
	stateMu   sync.RWMutex
	state     State
	observers prefs.Observers[State]
}

func NewStore(opts Options) (*Store, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(opts.Catalog, "Catalog"),
		vala.IsNotNil(opts.Tables, "Tables"),
		core.IsSet(opts.Backend, "Backend"),
		core.IsSet(opts.Logger, "Logger"),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "locale.NewStore")
	}

	s := &Store{
		catalog:        opts.Catalog,
		tables:         opts.Tables,
		backend:        opts.Backend,
		logger:         opts.Logger,
		numbers:        opts.Numbers,
		preCommitDelay: opts.PreCommitDelay,
		settleDelay:    opts.SettleDelay,
		sleep:          opts.Sleep,
		state:          State{Locale: opts.Catalog.Default()},
	}
	if s.preCommitDelay <= 0 {
		s.preCommitDelay = DefaultPreCommitDelay
	}
	if s.settleDelay <= 0 {
		s.settleDelay = DefaultSettleDelay
	}
	if s.sleep == nil {
		s.sleep = time.Sleep
	}
	return s, nil
}

// Initialize resolves the starting locale: persisted code, else the primary subtag of
// languageTag (e.g. "fr" for "fr-CA"), else the catalog default. Only the first call has an effect.
func (s *Store) Initialize(languageTag string) {
	s.initOnce.Do(func() {
		s.mutateMu.Lock()
		defer s.mutateMu.Unlock()

		s.commit(s.resolve(languageTag))
	})
}

func (s *Store) resolve(languageTag string) Entry {
	code, ok, err := s.backend.Get(prefs.LocaleKey)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("locale.Initialize: reading %s: %v", prefs.LocaleKey, err), err)
	}
	if ok {
		if entry, found := s.catalog.Lookup(code); found {
			return entry
		}
		s.logger.Debug(fmt.Sprintf("locale.Initialize: ignoring unknown persisted locale %q", code))
	}

	if entry, found := s.catalog.Lookup(PrimarySubtag(languageTag)); found {
		return entry
	}
	return s.catalog.Default()
}

// PrimarySubtag returns the lowercased language part of a BCP 47 tag.
func PrimarySubtag(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

// Available yields the catalog in order; it can be ranged over any number of times.
func (s *Store) Available() iter.Seq[Entry] {
	return s.catalog.All()
}

// ChangeLocale switches to code. Unknown codes and the active code are ignored: no flag,
// no write, no notification. It reports whether the locale changed.
func (s *Store) ChangeLocale(code string) bool {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	entry, ok := s.catalog.Lookup(code)
	if !ok || entry.Code == s.Current().Code {
		return false
	}

	s.setChanging(true)
	s.sleep(s.preCommitDelay)

	s.commit(entry)
	if err := s.backend.Set(prefs.LocaleKey, entry.Code); err != nil {
		s.logger.Error(fmt.Sprintf("locale.ChangeLocale: writing %s: %v", prefs.LocaleKey, err), err)
	}

	s.sleep(s.settleDelay)
	s.setChanging(false)
	return true
}

// Translate never fails: see Tables.Translate.
func (s *Store) Translate(key string) string {
	return s.tables.Translate(s.Current().Code, key)
}

// FormatNumber renders n the way the active locale writes numbers.
func (s *Store) FormatNumber(n float64, decimals uint64) string {
	if s.numbers == nil {
		return fmt.Sprintf("%.*f", int(decimals), n)
	}
	return s.numbers.Format(s.Current().Code, n, decimals)
}

func (s *Store) commit(entry Entry) {
	s.stateMu.Lock()
	s.state.Locale = entry
	state := s.state
	s.stateMu.Unlock()

	s.observers.Notify(state, s.logger)
}

func (s *Store) setChanging(on bool) {
	s.stateMu.Lock()
	s.state.Changing = on
	state := s.state
	s.stateMu.Unlock()

	s.observers.Notify(state, s.logger)
}

func (s *Store) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Store) Current() Entry   { return s.State().Locale }
func (s *Store) IsChanging() bool { return s.State().Changing }

// Subscribe registers fn to receive the state after every committed change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.observers.Subscribe(fn)
}
