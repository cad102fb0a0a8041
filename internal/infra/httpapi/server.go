package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"rent_reminder_service/internal/app"
)

// Headers browsers may send when the dashboard calls the functions directly.
var corsAllowHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Runner         app.ReminderRunner
		Logger         *logrus.Entry
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Validator = NewAppValidator()
	s.app.HTTPErrorHandler = errorHandler(s.opts.Logger)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(RequestLogger(s.opts.Logger))
	}
	s.app.Use(middleware.Recover())
	// Preflight requests are answered here with an empty 204.
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: corsAllowHeaders,
	}))

	s.app.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h := &reminderHandler{runner: s.opts.Runner}
	fn := s.app.Group("/functions/v1")
	fn.Match([]string{http.MethodGet, http.MethodPost}, "/send-smart-reminders", h.sendSmartReminders)
	fn.Match([]string{http.MethodGet, http.MethodPost}, "/send-reminders", h.sendReminders)
}

func (s *server) Start() error {
	err := s.app.Start(s.opts.Address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger(logger *logrus.Entry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let the error handler write the response before logging its status.
				c.Error(err)
			}

			logger.WithFields(logrus.Fields{
				"method":      c.Request().Method,
				"path":        c.Request().URL.Path,
				"status":      c.Response().Status,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("http request")
			return nil
		}
	}
}
