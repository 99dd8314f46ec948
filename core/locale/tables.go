package locale

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Table maps translation keys to text for one locale.
type Table map[string]string

// LoadTables reads every `<code>.yaml` file of dir in fsys.
func LoadTables(fsys fs.FS, dir string) (map[string]Table, error) {
	fps, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, errors.Wrap(err, "globbing tables")
	}

	tables := make(map[string]Table, len(fps))
	for _, fp := range fps {
		b, err := fs.ReadFile(fsys, fp)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", fp)
		}
		table := make(Table)
		if err := yaml.Unmarshal(b, &table); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", fp)
		}
		tables[strings.TrimSuffix(path.Base(fp), ".yaml")] = table
	}
	return tables, nil
}

// Tables is the set of translation tables shared by every visitor. It can be swapped at runtime.
type Tables struct {
	mu          sync.RWMutex
	defaultCode string
	tables      map[string]Table
}

func NewTables(defaultCode string, tables map[string]Table) *Tables {
	t := &Tables{defaultCode: defaultCode}
	t.Replace(tables)
	return t
}

// Replace swaps every table at once.
func (t *Tables) Replace(tables map[string]Table) {
	cp := make(map[string]Table, len(tables))
	for code, table := range tables {
		cp[code] = table
	}
	t.mu.Lock()
	t.tables = cp
	t.mu.Unlock()
}

// Translate looks key up in code's table, or in the default table when code has none, and returns
// key itself on a miss. A partial table does not borrow missing keys from the default one.
func (t *Tables) Translate(code, key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	table, ok := t.tables[code]
	if !ok {
		table = t.tables[t.defaultCode]
	}
	if text, ok := table[key]; ok {
		return text
	}
	return key
}

// Keys returns the sorted keys of the default table.
func (t *Tables) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.tables[t.defaultCode]))
	for k := range t.tables[t.defaultCode] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t *Tables) Snapshot() map[string]Table {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cp := make(map[string]Table, len(t.tables))
	for code, table := range t.tables {
		cp[code] = table
	}
	return cp
}
