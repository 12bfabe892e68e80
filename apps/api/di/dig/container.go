package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

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

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// CloseJournal releases the journal storage. It is a no-op for the in-memory journal.
type CloseJournal func() error

type notifierParams struct {
	dig.In
	Conf     *core.Config
	Logger   core.Logger
	DBLogger core.Logger `name:"dbLogger"`
	Journal  *audit.Service
	Mailer   core.EmailService
}

type serverParams struct {
	dig.In
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Notifier   core.Notifier
	Journal    *audit.Service
	Client     *backend.Client
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newJournal(conf *core.Config, loggerParam DBLoggerParam) (*audit.Service, CloseJournal) {
	if !conf.Database.Enabled() {
		loggerParam.Logger.Warn("no audit database configured, journal kept in memory")
		return audit.NewService(inmemdb.NewAuditRepository()), func() error { return nil }
	}

	db, err := database.Open(context.Background(), conf)
	if err == nil {
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
		}
	}
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return audit.NewService(sqlxrepos.NewAuditRepository(db)), db.Close
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(log.New(os.Stdout, "MAIL : ", log.LstdFlags), conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newNotifier(p notifierParams) core.Notifier {
	return notifysvc.Multi{
		notifysvc.NewLogNotifier(p.Logger),
		notifysvc.NewJournalNotifier(p.Journal, p.DBLogger),
		notifysvc.NewMailNotifier(p.Mailer, p.Conf.Notify.Recipients),
	}
}

func newBackendClient(conf *core.Config) *backend.Client {
	return backend.NewClient(conf.Backend)
}

func newServerDeps(p serverParams) echoapi.ServerDeps {
	return echoapi.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Validate:   p.Validate,
		Translator: p.Translator,
		Notifier:   p.Notifier,
		Journal:    p.Journal,
		Colleges:   p.Client,
		Students:   p.Client,
		Options:    p.Client,
		Payments:   p.Client,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newJournal))
	must(c.Provide(newEmailService))
	must(c.Provide(newNotifier))
	must(c.Provide(newBackendClient))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(core.NewValidator))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
