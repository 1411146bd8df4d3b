// Package httpserver exposes the account and sensor APIs over HTTP (fiber).
package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/envmon/internal/logging"
	"github.com/dmitrijs2005/envmon/internal/server/auth"
	"github.com/dmitrijs2005/envmon/internal/server/metrics"
	"github.com/dmitrijs2005/envmon/internal/server/models"
	"github.com/dmitrijs2005/envmon/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 5 * time.Second

type UserService interface {
	SignUp(ctx context.Context, in services.SignUpInput) (*models.User, error)
	LogIn(ctx context.Context, email, password string) (*services.Session, error)
	Profile(ctx context.Context, email string) (*models.User, error)
}

type ReadingService interface {
	Upload(ctx context.Context, temperature, humidity *float64) (*models.Reading, error)
	Fetch(ctx context.Context) ([]*models.Reading, error)
	Archive(ctx context.Context) (*services.ArchiveResult, error)
}

type TokenDecoder interface {
	Decode(token string) (*auth.Claims, error)
}

type HTTPServer struct {
	address  string
	app      *fiber.App
	users    UserService
	readings ReadingService
	tokens   TokenDecoder
	sessions *auth.SessionCarrier
	metrics  *metrics.Metrics
	logger   logging.Logger
}

func NewHTTPServer(address string, l logging.Logger, us UserService, rs ReadingService,
	tokens TokenDecoder, sessions *auth.SessionCarrier, m *metrics.Metrics) *HTTPServer {

	s := &HTTPServer{
		address:  address,
		users:    us,
		readings: rs,
		tokens:   tokens,
		sessions: sessions,
		metrics:  m,
		logger:   l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "envmon",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.routes()

	return s
}

func (s *HTTPServer) routes() {
	s.app.Use(s.requestLogger)
	s.app.Use(recover.New())

	s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	api := s.app.Group("/api")

	account := api.Group("/users")
	account.Post("/signup", s.signUp)
	account.Post("/login", s.logIn)
	account.Post("/logout", s.logOut)
	account.Get("/me", s.requireSession, s.me)

	sensor := api.Group("/sensor")
	sensor.Post("/", s.uploadReading)
	sensor.Get("/", s.fetchReadings)
	sensor.Post("/archive", s.requireSession, s.archiveReadings)
}

// App returns the underlying fiber application.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

func (s *HTTPServer) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	return s.app.Listen(s.address)
}

// errorHandler renders errors that escaped a handler. Anything that is not a
// *fiber.Error is reported as a bare 500.
func (s *HTTPServer) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := msgInternal

	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code, msg = fe.Code, fe.Message
	} else {
		s.logger.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return message(c, code, msg)
}
