// Package i18nwatch reloads the translation tables when their files change on disk.
package i18nwatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/locale"
)

const DefaultDebounce = 250 * time.Millisecond

type Watcher struct {
	dir      string
	catalog  *locale.Catalog
	tables   *locale.Tables
	logger   core.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

func New(dir string, catalog *locale.Catalog, tables *locale.Tables, logger core.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating watcher")
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, errors.Wrapf(err, "watching %s", dir)
	}
	return &Watcher{
		dir:      dir,
		catalog:  catalog,
		tables:   tables,
		logger:   logger,
		debounce: DefaultDebounce,
		watcher:  fw,
	}, nil
}

// Reload loads every table of the directory, logs the audit & swaps the tables in.
// Tables are left untouched when the directory cannot be loaded.
func (w *Watcher) Reload() error {
	tables, err := locale.LoadTables(os.DirFS(w.dir), ".")
	if err != nil {
		return errors.Wrapf(err, "loading tables from %s", w.dir)
	}
	if _, ok := tables[w.catalog.Default().Code]; !ok {
		return errors.Errorf("no %s table in %s", w.catalog.Default().Code, w.dir)
	}

	if report := locale.Audit(w.catalog, tables); !report.OK() {
		w.logger.Warn("i18nwatch: translation audit\n" + report.String())
	}
	w.tables.Replace(tables)
	w.logger.Info(fmt.Sprintf("i18nwatch: reloaded %d tables from %s", len(tables), w.dir))
	return nil
}

// Run reloads the tables, once things settle, after every change of a yaml file, until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".yaml" || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error(fmt.Sprintf("i18nwatch: %v", err), err)
		case <-timer.C:
			if err := w.Reload(); err != nil {
				w.logger.Error(fmt.Sprintf("i18nwatch: %v", err), err)
			}
		}
	}
}
