package visitor

import (
	"golang.org/x/text/language"

	"github.com/mrxclay666777/speakyz/core/theme"
)

// Env holds the environment signals sent by the visitor's browser.
type Env struct {
	ColorScheme theme.Mode // "" when the browser sent no hint
	Language    string     // best language tag, "" when unknown
}

// ParseEnv reads the `Sec-CH-Prefers-Color-Scheme` & `Accept-Language` header values.
func ParseEnv(prefersColorScheme, acceptLanguage string) Env {
	var env Env
	if mode, ok := theme.ParseMode(prefersColorScheme); ok {
		env.ColorScheme = mode
	}
	// tags come back sorted by quality
	if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
		if tags[0] != language.Und {
			env.Language = tags[0].String()
		}
	}
	return env
}
