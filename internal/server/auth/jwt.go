// Package auth holds the credential primitives of the server: password
// hashing, session token signing and the session cookie.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/envmon/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by a session token. Subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenConfig is fixed at startup. Now defaults to time.Now.
type TokenConfig struct {
	SecretKey []byte
	Validity  time.Duration
	Now       func() time.Time
}

// TokenIssuer signs and decodes HS256 session tokens.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	secret := make([]byte, len(cfg.SecretKey))
	copy(secret, cfg.SecretKey)

	return &TokenIssuer{secret: secret, validity: cfg.Validity, now: now}
}

// Issue signs a token for the user. expiresAt matches the exp claim, which
// has one second resolution.
func (t *TokenIssuer) Issue(userID, email string) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.validity).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	})

	s, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return s, expiresAt, nil
}

// Decode verifies signature, algorithm and expiry and returns the claims.
func (t *TokenIssuer) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
