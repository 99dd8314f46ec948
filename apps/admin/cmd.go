package main

import (
	"database/sql"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrxclay666777/speakyz/core"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	out    io.Writer
	openDB func() (*sql.DB, error)
}

func newRootCmd(cli *commandLine) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Speakyz administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(
		newMigrateCmd(cli),
		newHashPasswordCmd(cli),
		newI18nCmd(cli),
	)
	return root
}

// usage prints the command's usage & stops the run.
func usage(cmd *cobra.Command) error {
	_ = cmd.Usage()
	return errHelp
}
