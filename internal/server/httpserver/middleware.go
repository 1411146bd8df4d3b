package httpserver

import (
	"time"

	"github.com/dmitrijs2005/envmon/internal/server/auth"
	"github.com/gofiber/fiber/v2"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// requestLogger renders chain errors itself so that the logged status and the
// recorded metrics match what the client receives.
func (s *HTTPServer) requestLogger(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := s.errorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	elapsed := time.Since(start)
	status := c.Response().StatusCode()
	route := c.Route().Path

	s.metrics.RecordRequest(c.Method(), route, status, elapsed)

	args := []any{"method", c.Method(), "path", c.Path(), "status", status, "duration", elapsed}
	switch {
	case status >= fiber.StatusInternalServerError:
		s.logger.Error(c.UserContext(), "request", args...)
	case status >= fiber.StatusBadRequest:
		s.logger.Warn(c.UserContext(), "request", args...)
	default:
		s.logger.Info(c.UserContext(), "request", args...)
	}

	return nil
}

// requireSession admits requests carrying a valid session cookie and stores
// its claims in Locals.
func (s *HTTPServer) requireSession(c *fiber.Ctx) error {
	token := s.sessions.Read(c)
	if token == "" {
		return message(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	claims, err := s.tokens.Decode(token)
	if err != nil {
		s.logger.Debug(c.UserContext(), "session rejected", "error", err)
		return message(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

func sessionClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}
