package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/adminuser"
	"github.com/academiadanas/inscripciones/core/catalogo"
	"github.com/academiadanas/inscripciones/core/registro"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger       core.Logger
		RegistroSvc  *registro.Service
		Notifier     *registro.Notifier
		CatalogoSvc  *catalogo.Service
		AdminUserSvc *adminuser.Service
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Stop(context.Context) error
		Close() error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerPublicAPI(api, s.opts.RegistroSvc, s.opts.Notifier, s.opts.CatalogoSvc)
	registerAdminAPI(api, jwt, s.opts.RegistroSvc, s.opts.AdminUserSvc)
}

// Start blocks serving requests; the listener error surfaces on Errors().
func (s *server) Start() {
	s.errs <- s.app.Start(s.opts.Address)
}

func (s *server) Errors() <-chan error { return s.errs }

// ShutdownSignal delivers OS interrupt/terminate signals and internal
// shutdown requests raised by the error handler.
func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// Close force-stops the listener when a graceful Stop times out.
func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Academia Danas - Inscripciones API")
}
