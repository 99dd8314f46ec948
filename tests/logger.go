package testutil

import (
	"fmt"
	"sync"

	"github.com/mrxclay666777/speakyz/core"
)

// NopLogger discards everything.
type NopLogger struct{}

var _ core.Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

// RecordingLogger keeps every message, prefixed by its level, for assertions.
type RecordingLogger struct {
	mu       sync.Mutex
	messages []string
}

var _ core.Logger = (*RecordingLogger)(nil)

func (l *RecordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("%s: %s", level, msg))
}

// Messages returns a copy of the recorded messages.
func (l *RecordingLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.messages...)
}

func (l *RecordingLogger) Debug(msg string, _ ...interface{}) { l.record("debug", msg) }
func (l *RecordingLogger) Info(msg string, _ ...interface{})  { l.record("info", msg) }
func (l *RecordingLogger) Warn(msg string, _ ...interface{})  { l.record("warn", msg) }
func (l *RecordingLogger) Error(msg string, _ ...interface{}) { l.record("error", msg) }
func (l *RecordingLogger) Fatal(msg string, _ ...interface{}) { l.record("fatal", msg) }
