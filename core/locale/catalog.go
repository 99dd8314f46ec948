// Package locale holds a visitor's display language: the fixed catalog of selectable locales,
// the per-locale translation tables and the store mediating locale changes.
package locale

import (
	"iter"

	"github.com/pkg/errors"
)

// Entry is one selectable locale. Flag is the short marker shown next to the name.
type Entry struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Flag       string `json:"flag"`
}

// Catalog is an immutable ordered set of locales; the first entry is the default.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

func NewCatalog(entries ...Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, errors.New("locale.NewCatalog: empty catalog")
	}
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Code == "" {
			return nil, errors.Errorf("locale.NewCatalog: entry %d has no code", i)
		}
		if _, dup := c.index[e.Code]; dup {
			return nil, errors.Errorf("locale.NewCatalog: duplicate code %q", e.Code)
		}
		c.entries[i] = e
		c.index[e.Code] = i
	}
	return c, nil
}

func MustCatalog(entries ...Entry) *Catalog {
	c, err := NewCatalog(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// SiteCatalog lists the languages the site can be displayed in, English first.
var SiteCatalog = MustCatalog(
	Entry{Code: "en", Name: "English", NativeName: "English", Flag: "🇺🇸"},
	Entry{Code: "ru", Name: "Russian", NativeName: "Русский", Flag: "🇷🇺"},
	Entry{Code: "es", Name: "Spanish", NativeName: "Español", Flag: "🇪🇸"},
	Entry{Code: "fr", Name: "French", NativeName: "Français", Flag: "🇫🇷"},
	Entry{Code: "de", Name: "German", NativeName: "Deutsch", Flag: "🇩🇪"},
	Entry{Code: "it", Name: "Italian", NativeName: "Italiano", Flag: "🇮🇹"},
	Entry{Code: "pt", Name: "Portuguese", NativeName: "Português", Flag: "🇵🇹"},
	Entry{Code: "zh", Name: "Chinese", NativeName: "中文", Flag: "🇨🇳"},
	Entry{Code: "ja", Name: "Japanese", NativeName: "日本語", Flag: "🇯🇵"},
	Entry{Code: "ko", Name: "Korean", NativeName: "한국어", Flag: "🇰🇷"},
)

func (c *Catalog) Default() Entry { return c.entries[0] }
func (c *Catalog) Len() int       { return len(c.entries) }

func (c *Catalog) Lookup(code string) (Entry, bool) {
	i, ok := c.index[code]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// All yields the entries in order. Every call starts over from the first entry.
func (c *Catalog) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range c.entries {
			if !yield(e) {
				return
			}
		}
	}
}

func (c *Catalog) Codes() []string {
	codes := make([]string, len(c.entries))
	for i, e := range c.entries {
		codes[i] = e.Code
	}
	return codes
}
