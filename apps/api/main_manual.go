package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/collegedesk/console/apps/api/echo"
	"github.com/collegedesk/console/core"
	"github.com/collegedesk/console/core/audit"
	"github.com/collegedesk/console/services/backend"
	emailsvc "github.com/collegedesk/console/services/email"
	logsvc "github.com/collegedesk/console/services/logger"
	notifysvc "github.com/collegedesk/console/services/notify"
	"github.com/collegedesk/console/storage/database"
	inmemdb "github.com/collegedesk/console/storage/database/inmem"
	sqlxrepos "github.com/collegedesk/console/storage/database/sqlx"
)

func startManual() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up the audit journal
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	var journal *audit.Service
	if db != nil {
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		journal = audit.NewService(sqlxrepos.NewAuditRepository(db))
	} else {
		dbLogger.Warn("no audit database configured, journal kept in memory")
		journal = audit.NewService(inmemdb.NewAuditRepository())
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(log.New(os.Stdout, "MAIL : ", log.LstdFlags), conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	notifier := notifysvc.Multi{
		notifysvc.NewLogNotifier(logger),
		notifysvc.NewJournalNotifier(journal, dbLogger),
		notifysvc.NewMailNotifier(mailSvc, conf.Notify.Recipients),
	}
	client := backend.NewClient(conf.Backend)

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,
			Notifier:   notifier,
			Journal:    journal,
			Colleges:   client,
			Students:   client,
			Options:    client,
			Payments:   client,
		},
	)

	serve(conf, logger, server)
}

// setUpDB opens and migrates the audit database. It returns nil when none is configured.
func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if !conf.Database.Enabled() {
		return nil, nil
	}

	db, err := database.Open(context.Background(), conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
