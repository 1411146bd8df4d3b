package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/envmon/internal/common"
	"github.com/dmitrijs2005/envmon/internal/dbx"
	"github.com/dmitrijs2005/envmon/internal/server/auth"
	"github.com/dmitrijs2005/envmon/internal/server/models"
	"github.com/dmitrijs2005/envmon/internal/server/repositories/repomanager"
)

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}

type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Session is the result of a successful login.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      TokenIssuer
}

// NewUserService wires the account flows. db may be nil for the in-memory backend.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func internal(err error) error {
	return fmt.Errorf("%w: %w", common.ErrorInternal, err)
}

// SignUp registers a new, unverified account.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {

	if blank(in.FirstName) || blank(in.LastName) || blank(in.Email) || blank(in.Password) {
		return nil, common.ErrorValidation
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrPasswordTooLong)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, internal(fmt.Errorf("error hashing password: %w", err))
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		IsVerified:   false,
	}

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, internal(fmt.Errorf("error creating user: %w", err))
	}

	return created, nil
}

// LogIn checks credentials and issues a session token. The verification gate
// runs before the password is compared.
func (s *UserService) LogIn(ctx context.Context, email, password string) (*Session, error) {

	if blank(email) || blank(password) {
		return nil, common.ErrorValidation
	}

	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, internal(fmt.Errorf("error searching user: %w", err))
	}

	if !user.IsVerified {
		return nil, common.ErrAccountNotVerified
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, internal(fmt.Errorf("error verifying password: %w", err))
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, internal(fmt.Errorf("error issuing token: %w", err))
	}

	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Profile returns the account behind a session.
func (s *UserService) Profile(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, internal(fmt.Errorf("error searching user: %w", err))
	}
	return user, nil
}

// VerifyAccount marks the account as verified. With a database it runs
// inside a transaction that first locks in the account's existence.
func (s *UserService) VerifyAccount(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	verify := func(ctx context.Context, db dbx.DBTX) error {
		repo := s.repomanager.Users(db)
		if _, err := repo.FindByEmail(ctx, email); err != nil {
			return err
		}
		return repo.MarkVerified(ctx, email)
	}

	var err error
	if s.db == nil {
		err = verify(ctx, nil)
	} else {
		err = dbx.WithTx(ctx, s.db, nil, verify)
	}

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return internal(fmt.Errorf("error verifying account: %w", err))
	}
	return nil
}
