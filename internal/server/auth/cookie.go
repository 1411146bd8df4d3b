package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// SessionCarrier writes the session token to, and reads it from, an
// HttpOnly cookie.
type SessionCarrier struct {
	cfg CookieConfig
}

func NewSessionCarrier(cfg CookieConfig) *SessionCarrier {
	return &SessionCarrier{cfg: cfg}
}

func (s *SessionCarrier) Attach(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(s.cookie(token, expiresAt))
}

// Clear overwrites the cookie with an empty value that expired at the epoch.
func (s *SessionCarrier) Clear(c *fiber.Ctx) {
	c.Cookie(s.cookie("", time.Unix(0, 0)))
}

func (s *SessionCarrier) Read(c *fiber.Ctx) string {
	return c.Cookies(s.cfg.Name)
}

func (s *SessionCarrier) cookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     s.cfg.Name,
		Value:    value,
		Path:     "/",
		Domain:   s.cfg.Domain,
		Expires:  expires,
		Secure:   s.cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
