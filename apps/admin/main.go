package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/mrxclay666777/speakyz/core"
	logsvc "github.com/mrxclay666777/speakyz/services/logger"
)

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZap(conf)
	if err != nil {
		log.Fatalf("setting up zap: %v", err)
	}
	logger := logsvc.NewRollbarLogger(zl.Named("admin"), conf)
	logger.Enable(false)
	defer func() { _ = logger.Sync() }()

	cli := &commandLine{
		conf:   conf,
		out:    os.Stdout,
		openDB: func() (*sql.DB, error) { return openDB(conf) },
	}
	if err := newRootCmd(cli).Execute(); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("admin: %v", err), err)
		}
		_ = logger.Sync()
		os.Exit(1)
	}
}
