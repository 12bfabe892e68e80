package main

import (
	"log"

	dig_container "github.com/collegedesk/console/apps/api/di/dig"
	echoapi "github.com/collegedesk/console/apps/api/echo"
	"github.com/collegedesk/console/core"
)

func startWithDig() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		closeJournal dig_container.CloseJournal,
		server *echoapi.Server,
	) {
		defer func() {
			if err := closeJournal(); err != nil {
				dbLoggerParam.Logger.Fatal("Failed to close", err)
			}
		}()

		serve(conf, apiLogger, server)
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
