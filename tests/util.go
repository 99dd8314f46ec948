package testutil

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core/prefs"
)

var ErrBackendDown = errors.New("backend down")

// MapBackend is an in-memory prefs.Backend recording writes; FailWrites/FailReads simulate a broken
// store, FailReadKey a single unreadable key.
type MapBackend struct {
	mu         sync.Mutex
	data       map[string]string
	writes     []string
	FailWrites bool
	FailReads  bool

	FailReadKey string
}

var _ prefs.Backend = (*MapBackend)(nil)

func NewMapBackend(seed map[string]string) *MapBackend {
	data := make(map[string]string, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &MapBackend{data: data}
}

func (b *MapBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailReads || (b.FailReadKey != "" && key == b.FailReadKey) {
		return "", false, ErrBackendDown
	}
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *MapBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailWrites {
		return ErrBackendDown
	}
	b.data[key] = value
	b.writes = append(b.writes, key+"="+value)
	return nil
}

// Value returns the stored value for key ("" when absent).
func (b *MapBackend) Value(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data[key]
}

// Writes returns the successful writes, in order, as "key=value".
func (b *MapBackend) Writes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.writes...)
}

// SleepRecorder replaces a store's Sleep: it records the requested delays without waiting,
// and runs OnSleep (if set) at each one so tests can observe intermediate states.
type SleepRecorder struct {
	mu      sync.Mutex
	delays  []time.Duration
	OnSleep func(i int, d time.Duration)
}

func (s *SleepRecorder) Sleep(d time.Duration) {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	i := len(s.delays) - 1
	s.mu.Unlock()
	if s.OnSleep != nil {
		s.OnSleep(i, d)
	}
}

func (s *SleepRecorder) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}
