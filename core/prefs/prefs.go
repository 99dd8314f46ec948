// Package prefs holds what the preference stores share: the durable key/value backend they
// write through, the provenance of a value and the subscriber list notified on every commit.
package prefs

import (
	"github.com/pkg/errors"
)

// Persisted keys, one namespace per visitor.
const (
	ThemeKey       = "speakyz-theme"
	ThemeSourceKey = "speakyz-theme-source"
	LocaleKey      = "speakyz-language"
	ConsentKey     = "speakyz-cookie-consent"
)

// Backend is the durable key/value store a preference store reads at start & writes through.
// A missing key is not an error: Get returns ok == false.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Source is the provenance of a preference value.
type Source int

const (
	SystemDefault Source = iota
	PersistedFallback
	UserExplicit
)

var sourceNames = map[Source]string{
	SystemDefault:     "system",
	PersistedFallback: "persisted",
	UserExplicit:      "user",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Source) MarshalText() ([]byte, error) {
	if _, ok := sourceNames[s]; !ok {
		return nil, errors.Errorf("invalid source %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Source) UnmarshalText(b []byte) error {
	for src, name := range sourceNames {
		if name == string(b) {
			*s = src
			return nil
		}
	}
	return errors.Errorf("invalid source %q", string(b))
}
