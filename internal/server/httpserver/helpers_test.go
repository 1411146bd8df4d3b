package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/envmon/internal/logging"
	"github.com/dmitrijs2005/envmon/internal/server/auth"
	"github.com/dmitrijs2005/envmon/internal/server/config"
	"github.com/dmitrijs2005/envmon/internal/server/metrics"
	"github.com/dmitrijs2005/envmon/internal/server/models"
	"github.com/dmitrijs2005/envmon/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/envmon/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testCookie = "envmon_session"

type testEnv struct {
	srv     *HTTPServer
	issuer  *auth.TokenIssuer
	users   *services.UserService
	repos   repomanager.RepositoryManager
	metrics *metrics.Metrics
	clock   *time.Time
}

// newTestEnv wires the real account flow over the in-memory store. rs may be
// nil to use a ReadingService over the same store, with no archive bucket.
func newTestEnv(t *testing.T, rs ReadingService) *testEnv {
	t.Helper()

	now := time.Now()
	env := &testEnv{clock: &now}

	env.repos = repomanager.NewInMemoryRepositoryManager()
	env.issuer = auth.NewTokenIssuer(auth.TokenConfig{
		SecretKey: []byte("test-secret-key"),
		Validity:  time.Hour,
		Now:       func() time.Time { return *env.clock },
	})
	env.users = services.NewUserService(nil, env.repos, auth.NewBcryptHasher(bcrypt.MinCost), env.issuer)
	if rs == nil {
		rs = services.NewReadingService(nil, env.repos, &config.Config{})
	}
	env.metrics = metrics.New()

	env.srv = NewHTTPServer(":0", logging.NewNop(), env.users, rs, env.issuer,
		auth.NewSessionCarrier(auth.CookieConfig{Name: testCookie}), env.metrics)

	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	return do(t, e.srv, method, path, body, cookies...)
}

func do(t *testing.T, s *HTTPServer, method, path, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	return nil
}

// registerVerified creates an account and flips it to verified.
func (e *testEnv) registerVerified(t *testing.T, email, password string) *models.User {
	t.Helper()
	u, err := e.users.SignUp(context.Background(), services.SignUpInput{
		FirstName: "John", LastName: "Doe", Email: email, Password: password,
	})
	require.NoError(t, err)
	require.NoError(t, e.users.VerifyAccount(context.Background(), email))
	return u
}

type fakeUserService struct {
	err error
}

func (f *fakeUserService) SignUp(context.Context, services.SignUpInput) (*models.User, error) {
	return nil, f.err
}

func (f *fakeUserService) LogIn(context.Context, string, string) (*services.Session, error) {
	return nil, f.err
}

func (f *fakeUserService) Profile(context.Context, string) (*models.User, error) {
	return nil, f.err
}

type fakeReadingService struct {
	uploadErr error
	fetchOut  []*models.Reading
	fetchErr  error
	archive   *services.ArchiveResult
	archErr   error

	archiveCalls int
}

func (f *fakeReadingService) Upload(ctx context.Context, temperature, humidity *float64) (*models.Reading, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &models.Reading{ID: "r-1", Temperature: *temperature, Humidity: *humidity}, nil
}

func (f *fakeReadingService) Fetch(context.Context) ([]*models.Reading, error) {
	return f.fetchOut, f.fetchErr
}

func (f *fakeReadingService) Archive(context.Context) (*services.ArchiveResult, error) {
	f.archiveCalls++
	return f.archive, f.archErr
}
