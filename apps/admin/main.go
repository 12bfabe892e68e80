package main

import (
	"context"
	"log"
	"os"

	"github.com/collegedesk/console/core"
	"github.com/collegedesk/console/core/audit"
	"github.com/collegedesk/console/services/backend"
	"github.com/collegedesk/console/storage/database"
	inmemdb "github.com/collegedesk/console/storage/database/inmem"
	sqlxrepos "github.com/collegedesk/console/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	cli := commandLine{
		conf:     conf,
		payments: backend.NewClient(conf.Backend),
		out:      os.Stdout,
	}

	// the audit database is optional
	if conf.Database.Enabled() {
		db, err := database.Open(context.Background(), conf)
		errAndDie(err)
		defer db.Close()
		cli.db = db.DB
		cli.journal = audit.NewService(sqlxrepos.NewAuditRepository(db))
	} else {
		cli.journal = audit.NewService(inmemdb.NewAuditRepository())
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
