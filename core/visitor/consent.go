package visitor

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core/prefs"
)

// Consent is the visitor's cookie choice. Necessary cookies cannot be refused.
type Consent struct {
	Necessary  bool `json:"necessary"`
	Analytics  bool `json:"analytics"`
	Marketing  bool `json:"marketing"`
	Functional bool `json:"functional"`
}

var (
	AcceptAllConsent = Consent{Necessary: true, Analytics: true, Marketing: true, Functional: true}
	NecessaryOnly    = Consent{Necessary: true}
)

// ConsentState is what the banner needs: the current choice & whether one was ever made.
type ConsentState struct {
	Consent
	Decided bool `json:"decided"`
}

// Consent returns the stored choice, or NecessaryOnly when the visitor has not decided yet.
func (s *Session) Consent() (ConsentState, error) {
	raw, ok, err := s.backend.Get(prefs.ConsentKey)
	if err != nil {
		return ConsentState{Consent: NecessaryOnly}, err
	}
	if !ok {
		return ConsentState{Consent: NecessaryOnly}, nil
	}

	var c Consent
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.logger.Warn("visitor.Consent: ignoring invalid stored consent", err, s.Actor())
		return ConsentState{Consent: NecessaryOnly}, nil
	}
	c.Necessary = true
	return ConsentState{Consent: c, Decided: true}, nil
}

// SetConsent stores c (with Necessary forced on) and returns the stored state.
func (s *Session) SetConsent(c Consent) (ConsentState, error) {
	c.Necessary = true
	b, err := json.Marshal(c)
	if err != nil {
		return ConsentState{}, errors.Wrap(err, "encoding consent")
	}
	if err := s.backend.Set(prefs.ConsentKey, string(b)); err != nil {
		return ConsentState{}, err
	}
	return ConsentState{Consent: c, Decided: true}, nil
}
