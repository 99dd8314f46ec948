package main

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func openDB(conf *core.Config) (*sql.DB, error) {
	if conf.Database.Engine == database.EngineMemory {
		return nil, errors.New("the memory engine has nothing to migrate")
	}
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	return db.DB, nil
}

func newMigrateCmd(cli *commandLine) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run a goose command (up, down, status, ...) against the bundled migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usage(cmd)
			}
			return cli.migrate(args)
		},
	}
}

func (cli *commandLine) migrate(args []string) error {
	db, err := cli.openDB()
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(db, cli.conf.Database.Engine, args[0], arguments...)
}
