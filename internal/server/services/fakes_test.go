package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/envmon/internal/dbx"
	"github.com/dmitrijs2005/envmon/internal/server/models"
	"github.com/dmitrijs2005/envmon/internal/server/repositories/readings"
	"github.com/dmitrijs2005/envmon/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	createCalls int
	created     *models.User
	createErr   error

	findCalls int
	findOut   *models.User
	findErr   error

	markCalls int
	markErr   error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *u
	c.ID = "u-1"
	c.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.created = &c
	return &c, nil
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeUsersRepo) MarkVerified(ctx context.Context, email string) error {
	f.markCalls++
	return f.markErr
}

type fakeReadingsRepo struct {
	created   *models.Reading
	createErr error

	listOrder readings.Order
	listOut   []*models.Reading
	listErr   error
}

func (f *fakeReadingsRepo) Create(ctx context.Context, r *models.Reading) (*models.Reading, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *r
	c.ID = "r-1"
	f.created = &c
	return &c, nil
}

func (f *fakeReadingsRepo) List(ctx context.Context, order readings.Order) ([]*models.Reading, error) {
	f.listOrder = order
	return f.listOut, f.listErr
}

func (f *fakeReadingsRepo) Ping(ctx context.Context) error { return nil }

type fakeRepoMgr struct {
	users    users.Repository
	readings readings.Repository
}

func (m *fakeRepoMgr) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoMgr) Users(dbx.DBTX) users.Repository { return m.users }

func (m *fakeRepoMgr) Readings(dbx.DBTX) readings.Repository { return m.readings }

// fakeHasher "hashes" by prefixing, so tests can tell hash from plaintext.
type fakeHasher struct {
	hashErr   error
	verifyErr error

	hashCalls   int
	verifyCalls int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	h.hashCalls++
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *fakeHasher) Verify(password, hash string) (bool, error) {
	h.verifyCalls++
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return hash == "hashed:"+password, nil
}

type fakeIssuer struct {
	err    error
	userID string
	email  string
}

var fakeExpiry = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func (i *fakeIssuer) Issue(userID, email string) (string, time.Time, error) {
	if i.err != nil {
		return "", time.Time{}, i.err
	}
	i.userID, i.email = userID, email
	return "token-for-" + userID, fakeExpiry, nil
}

var errBoom = errors.New("boom")
