package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/collegedesk/console/core"
	"github.com/collegedesk/console/core/audit"
	"github.com/collegedesk/console/core/college"
	"github.com/collegedesk/console/core/payment"
	"github.com/collegedesk/console/core/student"
)

type (
	// ServerDeps is everything the API needs. The backends are usually one
	// services/backend.Client.
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Notifier   core.Notifier
		Journal    *audit.Service

		Colleges college.Backend
		Students student.Backend
		Options  student.OptionsBackend
		Payments payment.Backend
	}

	Server struct {
		ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	if deps.Notifier == nil {
		deps.Notifier = core.NopNotifier
	}
	s := &Server{
		ServerDeps: deps,
		app:        echo.New(),
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Debug = s.Conf.Debug
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.Conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.Conf.Debug || s.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1", middleware.JWTWithConfig(jwtConfig(s.Conf)))
	registerCollegeAPI(v1, s)
	registerStudentAPI(v1, s)
	registerPaymentAPI(v1, s)
	registerAuditAPI(v1, s)
}

// Start listens until the server is shut down. Listen failures are sent to Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the "+s.Conf.AppName+" console API!")
}
