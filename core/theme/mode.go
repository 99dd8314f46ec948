// Package theme holds a visitor's light/dark display mode and mediates every transition.
package theme

import (
	"strings"

	"github.com/mrxclay666777/speakyz/core/prefs"
)

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ParseMode accepts "light" & "dark" (case & space insensitive).
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Light, Dark:
		return m, true
	}
	return "", false
}

func (m Mode) Valid() bool { return m == Light || m == Dark }

func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// State is the snapshot handed to readers & subscribers.
type State struct {
	Mode          Mode         `json:"theme"`
	Source        prefs.Source `json:"theme_source"`
	Transitioning bool         `json:"theme_transitioning"`
}

// Presenter applies a resolved mode to the visitor's document.
type Presenter interface {
	ApplyTheme(Mode)
}
