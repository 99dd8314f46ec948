package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mrxclay666777/speakyz/core/locale"
	appfs "github.com/mrxclay666777/speakyz/fs"
)

var errAuditFailed = errors.New("translation audit failed")

func newI18nCmd(cli *commandLine) *cobra.Command {
	i18n := &cobra.Command{
		Use:   "i18n",
		Short: "Translation tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usage(cmd)
		},
	}

	var dir string
	var strict bool
	check := &cobra.Command{
		Use:   "check",
		Short: "Audit the translation tables against the default locale",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return cli.checkTranslations(dir, strict)
		},
	}
	check.Flags().StringVar(&dir, "dir", "", "directory of <code>.yaml tables (the bundled tables when empty)")
	check.Flags().BoolVar(&strict, "strict", false, "fail on missing keys too")

	i18n.AddCommand(check)
	return i18n
}

// checkTranslations prints the audit. Unknown keys or tables fail the check; missing keys only
// fail it in strict mode since they fall back to the default locale.
func (cli *commandLine) checkTranslations(dir string, strict bool) error {
	var fsys fs.FS = appfs.FS
	tablesDir := "locales"
	if dir != "" {
		fsys, tablesDir = os.DirFS(dir), "."
	}

	tables, err := locale.LoadTables(fsys, tablesDir)
	if err != nil {
		return err
	}
	report := locale.Audit(locale.SiteCatalog, tables)
	_, _ = fmt.Fprintln(cli.out, report.String())

	failures := report.Count(locale.UnknownKey) + report.Count(locale.UnknownTable)
	if strict {
		failures = len(report.Issues)
	}
	if failures > 0 {
		return errors.Wrapf(errAuditFailed, "%d issues", failures)
	}
	return nil
}
