package i18nwatch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mrxclay666777/speakyz/core/locale"
	"github.com/mrxclay666777/speakyz/services/i18nwatch"
	testutil "github.com/mrxclay666777/speakyz/tests"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeTable(t *testing.T, dir, code, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, code+".yaml"), []byte(content), 0o644))
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "en", `nav.home: "Home"`)
	writeTable(t, dir, "ru", `nav.home: "Главная"`)

	tables := locale.NewTables("en", nil)
	logger := &testutil.RecordingLogger{}
	w, err := i18nwatch.New(dir, locale.SiteCatalog, tables, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	require.NoError(t, w.Reload())
	assert.Equal(t, "Главная", tables.Translate("ru", "nav.home"))

	writeTable(t, dir, "ru", `nav.home: "Домой"`)
	assert.Eventually(t, func() bool {
		return tables.Translate("ru", "nav.home") == "Домой"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_ReloadKeepsTablesOnError(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "en", `nav.home: "Home"`)

	tables := locale.NewTables("en", map[string]locale.Table{"en": {"nav.home": "Start"}})
	w, err := i18nwatch.New(dir, locale.SiteCatalog, tables, testutil.NopLogger{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx)) // closes the fs watcher

	writeTable(t, dir, "en", `nav.home: [broken`)
	assert.Error(t, w.Reload())
	assert.Equal(t, "Start", tables.Translate("en", "nav.home"))

	require.NoError(t, os.Remove(filepath.Join(dir, "en.yaml")))
	writeTable(t, dir, "ru", `nav.home: "Главная"`)
	assert.Error(t, w.Reload(), "a default table is required")
}

func TestNew_MissingDir(t *testing.T) {
	_, err := i18nwatch.New(filepath.Join(t.TempDir(), "nope"), locale.SiteCatalog, locale.NewTables("en", nil), testutil.NopLogger{})
	assert.Error(t, err)
}
