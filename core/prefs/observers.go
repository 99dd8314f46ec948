package prefs

import (
	"fmt"
	"sync"

	"github.com/mrxclay666777/speakyz/core"
)

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Observers is a list of callbacks notified, in registration order, after every committed change.
// The zero value is ready to use.
type Observers[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber[T]
}

// Subscribe registers fn and returns the func unregistering it. Unsubscribing twice is a no-op.
func (o *Observers[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.subs = append(o.subs, subscriber[T]{id: id, fn: fn})
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { o.remove(id) })
	}
}

func (o *Observers[T]) remove(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, s := range o.subs {
		if s.id == id {
			o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered subscribers.
func (o *Observers[T]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}

// Notify calls every subscriber synchronously with v.
// A panicking subscriber is recovered & logged; the remaining subscribers still run.
func (o *Observers[T]) Notify(v T, logger core.Logger) {
	o.mu.Lock()
	subs := make([]subscriber[T], len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	for _, s := range subs {
		notifyOne(s.fn, v, logger)
	}
}

func notifyOne[T any](fn func(T), v T, logger core.Logger) {
	defer func() {
		if r := recover(); r != nil && logger != nil {
			logger.Error(fmt.Sprintf("prefs.Notify: subscriber panicked: %v", r))
		}
	}()
	fn(v)
}
