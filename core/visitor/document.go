package visitor

import (
	"sync"

	"github.com/mrxclay666777/speakyz/core/theme"
)

// Document is what the page renderer reads for the root element: the `dark` class & `lang`.
type Document struct {
	mu   sync.RWMutex
	dark bool
	lang string
}

var _ theme.Presenter = (*Document)(nil)

func (d *Document) ApplyTheme(m theme.Mode) {
	d.mu.Lock()
	d.dark = m == theme.Dark
	d.mu.Unlock()
}

func (d *Document) SetLang(code string) {
	d.mu.Lock()
	d.lang = code
	d.mu.Unlock()
}

func (d *Document) Dark() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dark
}

func (d *Document) Lang() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lang
}

// Classes returns the class attribute of the root element.
func (d *Document) Classes() string {
	if d.Dark() {
		return "dark"
	}
	return ""
}
